package repository

import (
	sq "github.com/Masterminds/squirrel"
)

// psql builds every statement with dollar placeholders; nothing in this
// package interpolates values into SQL text.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
