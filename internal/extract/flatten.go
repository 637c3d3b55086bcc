package extract

import "github.com/precisiondoc/precisiondoc/internal/model"

// Flatten converts one document's ordered page results into a flat record
// set, one record per page in page order.
//
// Each record is seeded with document_type, the 1-based page_number and the
// page's top-level fields (everything except content). The content is then
// normalized and merged in, with normalizer-derived keys overwriting any
// same-named seeded key.
func Flatten(docType string, pages []model.PageResult) model.RecordSet {
	rows := make(model.RecordSet, 0, len(pages))
	for i, page := range pages {
		rec := model.NewRecord()
		rec.Set("document_type", docType)
		rec.Set("page_number", i+1)
		rec.Set("success", page.Success)
		if page.PageType != "" {
			rec.Set("page_type", string(page.PageType))
		}
		if page.ImagePath != "" {
			rec.Set("image_path", page.ImagePath)
		}
		if page.Error != "" {
			rec.Set("error", page.Error)
		}
		if page.Content != "" {
			rec.Merge(Normalize(page.Content))
		}
		rows = append(rows, rec)
	}
	return rows
}
