package protocol

const (
	CommandGenerateTags = "generate-tags"

	VariantGenerateTags = "GenerateTags"
	VariantProgram      = "Program"
	VariantCompleted    = "Completed"
)

// Message is any value that travels as one externally tagged JSON line.
type Message interface {
	Variant() string
}

// Request is the closed set of requests a peer may send.
type Request interface {
	Message
	// Command is the canonical request kind echoed back in Completed.
	Command() string
	// PayloadSize is the number of raw bytes that follow the request line.
	PayloadSize() uint64
	isRequest()
}

// GenerateTags asks for the tags of one file whose content follows the line.
type GenerateTags struct {
	Filename string `json:"filename"`
	Size     uint64 `json:"size"`
}

func (GenerateTags) Variant() string       { return VariantGenerateTags }
func (GenerateTags) Command() string       { return CommandGenerateTags }
func (r GenerateTags) PayloadSize() uint64 { return r.Size }
func (GenerateTags) isRequest()            {}

// Program is the startup announcement.
type Program struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (Program) Variant() string { return VariantProgram }

// Completed closes out one request after all of its records.
type Completed struct {
	Command string `json:"command"`
}

func (Completed) Variant() string { return VariantCompleted }

// CompletedFor returns the completion reply for req.
func CompletedFor(req Request) Completed {
	return Completed{Command: req.Command()}
}
