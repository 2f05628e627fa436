package categorizer

// Keyword dictionaries used for industry and website-type classification.
// The *Order slices define a fixed iteration order so that score ties always
// resolve to the first-declared category, independent of map iteration.

var industryOrder = []string{
	"banking",
	"healthcare",
	"education",
	"ecommerce",
	"technology",
	"government",
	"entertainment",
	"news",
	"travel",
	"real_estate",
}

var industryKeywords = map[string][]string{
	"banking":     {"bank", "loan", "mortgage", "credit", "debit", "account", "finance", "investment"},
	"healthcare":  {"hospital", "clinic", "doctor", "medical", "health", "patient", "treatment", "medicine"},
	"education":   {"school", "university", "college", "course", "student", "teacher", "education", "learning"},
	"ecommerce":   {"shop", "store", "product", "cart", "checkout", "price", "sale", "buy"},
	"technology":  {"software", "hardware", "tech", "digital", "computer", "internet", "app", "mobile"},
	"government":  {"gov", "government", "official", "public", "service", "department", "ministry"},
	"entertainment": {"movie", "music", "game", "entertainment", "show", "media", "stream"},
	"news":        {"news", "article", "report", "journal", "press", "media", "headline"},
	"travel":      {"travel", "tourism", "hotel", "flight", "booking", "vacation", "trip"},
	"real_estate": {"property", "real estate", "house", "apartment", "rent", "sale", "home"},
}

var websiteTypeOrder = []string{
	"corporate",
	"ecommerce",
	"informational",
	"social",
	"service",
	"blog",
	"portfolio",
	"directory",
}

var websiteTypeKeywords = map[string][]string{
	"corporate":     {"about", "company", "corporate", "business", "enterprise"},
	"ecommerce":     {"shop", "store", "cart", "checkout", "product"},
	"informational": {"about", "info", "information", "guide", "help"},
	"social":        {"login", "signup", "profile", "user", "community", "forum"},
	"service":       {"service", "support", "help", "contact", "assistance"},
	"blog":          {"blog", "article", "post", "news", "update"},
	"portfolio":     {"portfolio", "work", "projects", "gallery", "showcase"},
	"directory":     {"directory", "listing", "catalog", "index", "search"},
}

// Audience term lists; counts are compared directly, ties classify as General.
var (
	b2bKeywords = []string{"business", "enterprise", "corporate", "wholesale", "b2b"}
	b2cKeywords = []string{"consumer", "customer", "retail", "personal", "individual"}
)

// Audience labels
const (
	AudienceB2B     = "B2B"
	AudienceB2C     = "B2C"
	AudienceGeneral = "General"
)
