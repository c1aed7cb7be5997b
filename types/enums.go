package types

type FileKind string

const (
	KindPDF   FileKind = "pdf"
	KindImage FileKind = "image"
)

type ResultKind string

const (
	ResultPDF ResultKind = "pdf"
	ResultZip ResultKind = "zip"
)

// Extension returns the filename extension delivered results carry.
func (k ResultKind) Extension() string {
	switch k {
	case ResultZip:
		return ".zip"
	default:
		return ".pdf"
	}
}
