package crawler

import (
	"strings"
	"time"

	"github.com/finharvest/finharvest/internal/extract"
	"github.com/finharvest/finharvest/internal/model"
)

// publicDomainOrgs are the government bodies whose publications are
// classified public. Anything else stays unknown until reviewed.
var publicDomainOrgs = map[string]bool{
	"SEBI": true,
	"NSE":  true,
	"AMFI": true,
	"RBI":  true,
	"CBDT": true,
}

// buildDocument assembles the catalog record for a fetched document.
// Metadata extraction is best-effort: a missing title falls back to the
// URL's trailing segment, a missing date stays unset, and only a record
// failing its mandatory-field validation is dropped (returns nil).
func (s *Spider) buildDocument(url string, content []byte, ft model.FileType) *Document {
	var title, dateText, circular string
	if ft == model.FileTypePDF {
		title, dateText = extract.PDFMetadata(content)
		if title != "" {
			circular = extract.CircularNumber(title)
		}
	}
	if title == "" {
		title = titleFromURL(url)
	}

	var published model.Date
	if dateText != "" {
		if d, ok := extract.ParseDateString(dateText); ok {
			published = d
		}
	}
	if published.IsZero() {
		if d, ok := extract.DateFromURL(url); ok {
			published = d
		}
	}

	rec := &model.DocumentRecord{
		ID:            model.GenerateDocumentID(url, title),
		Title:         title,
		Domain:        s.config.Domain,
		TopicTags:     extract.TopicTags("", title),
		Jurisdiction:  "IN",
		SourceTier:    1,
		SourceOrg:     s.config.Org,
		SourceURL:     url,
		FileType:      ft,
		PublishedDate: published,
		LastChecked:   model.DateOf(time.Now()),
		CircularNo:    circular,
		Copyright:     copyrightFor(s.config.Org),
		Language:      "en",
		Audience:      model.AudienceEducation,
		QualityFlags:  model.DefaultQualityFlags(),
	}
	if err := rec.Validate(); err != nil {
		s.logger.Warn("dropping invalid record", "source", s.config.Name, "url", url, "error", err)
		return nil
	}
	return &Document{Record: rec, Content: content}
}

func copyrightFor(org string) model.Copyright {
	if publicDomainOrgs[org] {
		return model.CopyrightPublic
	}
	return model.CopyrightUnknown
}

// titleFromURL falls back to the URL's trailing segment.
func titleFromURL(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return "Document"
}
