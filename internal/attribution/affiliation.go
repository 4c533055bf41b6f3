package attribution

import "strings"

// affiliations maps lower-cased raw party labels to canonical names.
var affiliations = map[string]string{
	"lab":                                "Labour",
	"labour":                             "Labour",
	"lab/co-op":                          "Labour (Co-op)",
	"lab co-op":                          "Labour (Co-op)",
	"labour (co-op)":                     "Labour (Co-op)",
	"labour co-operative":                "Labour (Co-op)",
	"con":                                "Conservative",
	"conservative":                       "Conservative",
	"ld":                                 "Liberal Democrat",
	"ld.":                                "Liberal Democrat",
	"ldem":                               "Liberal Democrat",
	"lib dem":                            "Liberal Democrat",
	"liberal democrat":                   "Liberal Democrat",
	"liberal democrats":                  "Liberal Democrat",
	"snp":                                "Scottish National Party",
	"scottish national party":            "Scottish National Party",
	"pc":                                 "Plaid Cymru",
	"plaid cymru":                        "Plaid Cymru",
	"dup":                                "Democratic Unionist Party",
	"democratic unionist party":          "Democratic Unionist Party",
	"sf":                                 "Sinn Féin",
	"sinn fein":                          "Sinn Féin",
	"sinn féin":                          "Sinn Féin",
	"sdlp":                               "Social Democratic & Labour Party",
	"social democratic & labour party":   "Social Democratic & Labour Party",
	"social democratic and labour party": "Social Democratic & Labour Party",
	"uup":                                "Ulster Unionist Party",
	"ulster unionist party":              "Ulster Unionist Party",
	"tuv":                                "Traditional Unionist Voice",
	"alliance":                           "Alliance",
	"apni":                               "Alliance",
	"green":                              "Green Party",
	"green party":                        "Green Party",
	"gp":                                 "Green Party",
	"ref":                                "Reform UK",
	"reform":                             "Reform UK",
	"reform uk":                          "Reform UK",
	"alba":                               "Alba Party",
	"ind":                                "Independent",
	"independent":                        "Independent",
	"cb":                                 "Crossbench",
	"crossbench":                         "Crossbench",
	"bp":                                 "Bishops",
	"bishops":                            "Bishops",
	"lords spiritual":                    "Bishops",
	"non-afl":                            "Non-affiliated",
	"non-affiliated":                     "Non-affiliated",
	"spk":                                "Speaker",
	"speaker":                            "Speaker",
	"ls":                                 "Lord Speaker",
	"lord speaker":                       "Lord Speaker",
}

// NormalizeAffiliation maps a raw party label to its canonical name.
// Unknown labels are returned trimmed but otherwise unchanged.
func NormalizeAffiliation(raw string) string {
	s := strings.TrimSpace(raw)
	if canonical, ok := affiliations[strings.ToLower(s)]; ok {
		return canonical
	}
	return s
}
