package summarizer

// The prompt is preamble + transcript + directive, with the transcript
// embedded verbatim.
const (
	promptPreamble = `
You are a meeting assistant. Read the following transcript and summarize the key points and list the action items clearly.

Transcript:
`
	promptDirective = `

Please provide:
- A bullet list of key points
- A bullet list of action items
`
)

// BuildPrompt returns the summarization prompt for transcript. The same
// transcript always yields byte-identical output.
func BuildPrompt(transcript string) string {
	return promptPreamble + transcript + promptDirective
}
