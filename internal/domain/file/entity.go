package file

// FileType classifies a stored file by its MIME type.
type FileType string

const (
	TypeImage    FileType = "image"
	TypeDocument FileType = "document"
)

type File struct {
	ID          int64
	Size        int64
	Name        string
	ContentType string
	FileType    FileType
}

const OperationAdd = "add"

var imageTypes = []string{
	"image/jpeg",
	"image/png",
}

var documentTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", // xlsx
	"application/vnd.ms-excel", // xls
	"application/pdf",          // pdf
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document", // docx
	"application/msword",       // doc
	"text/plain",               // txt
	"application/octet-stream",
}

func ValidateID(id int64) bool {
	return id > 0
}

// Classify maps a MIME type to a file type; ok is false for anything
// outside the accepted set.
func Classify(mimeType string) (FileType, bool) {
	for _, t := range imageTypes {
		if t == mimeType {
			return TypeImage, true
		}
	}
	for _, t := range documentTypes {
		if t == mimeType {
			return TypeDocument, true
		}
	}
	return "", false
}
