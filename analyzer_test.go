package categorizer

import (
	"reflect"
	"testing"
)

func TestAnalyzeContentIndustry(t *testing.T) {
	html := `<html>
		<head><title>First National Bank</title></head>
		<body>
			<p>Open an account today. Our bank offers every loan and mortgage
			product, with credit and investment advice from finance experts.</p>
		</body>
	</html>`

	cats, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	if cats.PrimaryIndustry != "banking" {
		t.Errorf("expected banking, got %s", cats.PrimaryIndustry)
	}
	if cats.IndustryConfidence != 1.0 {
		t.Errorf("expected confidence 1.0 for dominant industry, got %f", cats.IndustryConfidence)
	}
}

func TestAnalyzeContentDeterministic(t *testing.T) {
	html := `<html>
		<head>
			<title>Travel Deals</title>
			<meta name="description" content="Hotel and flight booking">
		</head>
		<body>
			<a href="/login">Sign in</a>
			<p>Book your vacation trip with our travel and tourism specialists.</p>
		</body>
	</html>`

	first, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}
	second, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical markup produced different results:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeContentFunctionality(t *testing.T) {
	html := `<html><body>
		<form action="/subscribe"><input type="text" name="email"></form>
		<a href="/login">Log in</a>
	</body></html>`

	cats, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	want := []string{"forms", "user_authentication"}
	if !reflect.DeepEqual(cats.Functionality, want) {
		t.Errorf("functionality = %v, want %v", cats.Functionality, want)
	}
}

func TestAnalyzeContentFunctionalityEmpty(t *testing.T) {
	cats, err := AnalyzeContent(`<html><body><p>plain text only</p></body></html>`)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	if cats.Functionality == nil {
		t.Fatal("functionality should be empty, not nil")
	}
	if len(cats.Functionality) != 0 {
		t.Errorf("expected no functionality tags, got %v", cats.Functionality)
	}
}

func TestAnalyzeContentIgnoresScripts(t *testing.T) {
	html := `<html><body>
		<script>var s = "bank bank bank loan loan mortgage credit";</script>
		<p>Book a hotel and a flight for your vacation trip with our travel specialists.</p>
	</body></html>`

	cats, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	if cats.PrimaryIndustry != "travel" {
		t.Errorf("script text should not be scored, got industry %s", cats.PrimaryIndustry)
	}
}

func TestAnalyzeContentMeta(t *testing.T) {
	html := `<html><head>
		<title>  ACME Corp  </title>
		<meta name="description" content="Enterprise Widgets">
		<meta name="keywords" content="Widgets, Gadgets">
	</head><body></body></html>`

	cats, err := AnalyzeContent(html)
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}

	if cats.MetaInformation.Title != "acme corp" {
		t.Errorf("title = %q, want %q", cats.MetaInformation.Title, "acme corp")
	}
	if cats.MetaInformation.Description != "enterprise widgets" {
		t.Errorf("description = %q, want %q", cats.MetaInformation.Description, "enterprise widgets")
	}
	if cats.MetaInformation.Keywords != "widgets, gadgets" {
		t.Errorf("keywords = %q, want %q", cats.MetaInformation.Keywords, "widgets, gadgets")
	}
}

func TestClassifyAudience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "b2b terms dominate",
			text: "we serve enterprise and business and wholesale buyers",
			want: AudienceB2B,
		},
		{
			name: "b2c terms dominate",
			text: "every customer gets personal retail service",
			want: AudienceB2C,
		},
		{
			name: "tie classifies as general",
			text: "business customer",
			want: AudienceGeneral,
		},
		{
			name: "no terms classifies as general",
			text: "a page about gardening",
			want: AudienceGeneral,
		},
		{
			name: "embedded terms do not count",
			text: "businesses customers",
			want: AudienceGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyAudience(tt.text); got != tt.want {
				t.Errorf("classifyAudience(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	got := detectLanguage("welcome to our site",
		"the quick brown fox jumps over the lazy dog",
		"this is a longer passage of english text used to make detection reliable for the test")
	if got != "eng" {
		t.Errorf("expected eng, got %q", got)
	}

	if got := detectLanguage("", "", ""); got != "" {
		t.Errorf("expected empty language for empty input, got %q", got)
	}
}
