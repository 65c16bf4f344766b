package internal

type ManifestSource string

const (
	SourceMailAttachment ManifestSource = "mail_attachment"
	SourceLocalFile      ManifestSource = "local_file"
)

// ExtractedRecord is one accepted bill-of-materials line. Qty stays a
// string: the delivery templates treat quantity as text and never do
// arithmetic on it.
type ExtractedRecord struct {
	Description string
	Qty         string
}

// Metadata is the header bundle written into the template next to the
// extracted records.
type Metadata struct {
	Project      string
	Location     string
	DeliveryDate string
	SiteContact  string
	Phone        string
	Building     string
	Category     string
}

type Preset struct {
	Building    string
	Category    string
	Project     string
	Location    string
	SiteContact string
	Phone       string
}

type MailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type ManifestRow struct {
	ID         int
	MailID     *int
	Source     ManifestSource
	FileName   string
	Hash       string
	Status     string
	RawRef     string
	ReceivedAt string
}

type ExtractionRow struct {
	ID          int
	ManifestID  int
	LineNo      int
	Description string
	Qty         string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type ManifestAttachment struct {
	FileName string
	Content  []byte
}
