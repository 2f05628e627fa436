package categorizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"github.com/zombar/categorizer/models"
)

// functionalityChecks are evaluated in declared order; every matching check
// contributes its tag, so multiple tags may apply to one page.
var functionalityChecks = []struct {
	tag      string
	selector string
}{
	{"forms", "form"},
	{"search", "input[type='search']"},
	{"user_authentication", "a[href*='login'], a[href*='signin'], a[href*='signup'], a[href*='register']"},
	{"ecommerce", "a[href*='cart'], a[href*='checkout'], a[href*='basket']"},
	{"content_management", "a[href*='blog'], a[href*='news'], a[href*='article']"},
	{"social_integration", "a[href*='social'], a[href*='share'], a[href*='facebook'], a[href*='twitter']"},
}

// AnalyzeContent categorizes raw HTML markup. It is a pure function of its
// input: identical markup always yields identical output. Unparseable input
// fails with an AnalysisError and no partial result.
func AnalyzeContent(markup string) (*models.Categories, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	// Structural checks run before any elements are stripped
	functionality := []string{}
	for _, check := range functionalityChecks {
		if doc.Find(check.selector).Length() > 0 {
			functionality = append(functionality, check.tag)
		}
	}

	meta := models.MetaInformation{
		Title: strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text())),
	}
	if val, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		meta.Description = strings.ToLower(strings.TrimSpace(val))
	}
	if val, exists := doc.Find("meta[name='keywords']").Attr("content"); exists {
		meta.Keywords = strings.ToLower(strings.TrimSpace(val))
	}

	doc.Find("script, style, noscript").Remove()
	bodyText := strings.ToLower(collapseWhitespace(doc.Find("body").Text()))

	combined := bodyText + " " + meta.Title + " " + meta.Description + " " + meta.Keywords

	industryScores := scoreKeywords(combined, industryOrder, industryKeywords)
	primaryIndustry, industryConfidence := topCategory(industryScores, industryOrder)

	typeScores := scoreKeywords(combined, websiteTypeOrder, websiteTypeKeywords)
	websiteType, typeConfidence := topCategory(typeScores, websiteTypeOrder)

	return &models.Categories{
		PrimaryIndustry:    primaryIndustry,
		IndustryConfidence: industryConfidence,
		WebsiteType:        websiteType,
		TypeConfidence:     typeConfidence,
		Functionality:      functionality,
		TargetAudience:     classifyAudience(combined),
		Language:           detectLanguage(meta.Title, meta.Description, bodyText),
		MetaInformation:    meta,
	}, nil
}

// classifyAudience compares whole-word counts of the B2B and B2C term lists;
// the greater count wins, a tie (including 0-0) classifies as General.
func classifyAudience(text string) string {
	b2b := 0
	for _, keyword := range b2bKeywords {
		b2b += countWholeWord(text, keyword)
	}
	b2c := 0
	for _, keyword := range b2cKeywords {
		b2c += countWholeWord(text, keyword)
	}

	switch {
	case b2b > b2c:
		return AudienceB2B
	case b2c > b2b:
		return AudienceB2C
	default:
		return AudienceGeneral
	}
}

// detectLanguage runs language detection over the title, description and a
// snippet of the body text. Returns an ISO 639-3 code, or "" when the page
// has no detectable text.
func detectLanguage(title, description, bodyText string) string {
	snippet := bodyText
	if words := strings.Fields(bodyText); len(words) > 100 {
		snippet = strings.Join(words[:100], " ")
	}

	sample := strings.TrimSpace(title + " " + description + " " + snippet)
	if sample == "" {
		return ""
	}
	info := whatlanggo.Detect(sample)
	return info.Lang.Iso6393()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
