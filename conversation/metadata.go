package conversation

// Metadata is the derived display data for one transcript.
type Metadata struct {
	Title    string
	Category Category
	Preview  string
	Analysis string
}

// DeriveMetadata runs the full pipeline over a transcript. It is pure:
// the same transcript always yields the same metadata, which is what
// makes bulk regeneration idempotent.
func DeriveMetadata(messages []Message) Metadata {
	return Metadata{
		Title:    GenerateTitle(messages),
		Category: Classify(messages),
		Preview:  GeneratePreview(messages),
		Analysis: ExtractKeyInsights(messages),
	}
}
