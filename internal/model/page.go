package model

// PageType classifies a guideline page before evidence extraction
type PageType string

const (
	PageTypeContent         PageType = "content"           // Actual guideline content
	PageTypeTableOfContents PageType = "table_of_contents" // Chapter listing with page numbers
	PageTypeReferences      PageType = "references"        // Cited literature listing
)

// PageResult holds the raw AI output for one processed page.
// It is immutable after creation and owned by the document that produced it.
type PageResult struct {
	Success   bool     `json:"success"`              // Whether the AI call succeeded
	Content   string   `json:"content,omitempty"`    // Raw model response (free text / JSON / Markdown mix)
	PageType  PageType `json:"page_type,omitempty"`  // Page classification
	ImagePath string   `json:"image_path,omitempty"` // Rasterized page image, if one was produced
	Error     string   `json:"error,omitempty"`      // Failure detail when Success is false
}

// SkippedPage builds the PageResult recorded for a non-content page.
func SkippedPage(pt PageType) PageResult {
	return PageResult{
		Success:  true,
		Content:  "This page appears to be a " + string(pt) + " page and was skipped for detailed AI processing.",
		PageType: pt,
	}
}

// FailedPage builds the PageResult recorded when page processing fails.
// Failures are isolated to the page; processing continues with the next one.
func FailedPage(err error) PageResult {
	return PageResult{
		Success:  false,
		PageType: PageTypeContent,
		Error:    err.Error(),
	}
}
