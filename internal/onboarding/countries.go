package onboarding

import "strings"

var countries = []string{
	"India", "United States", "United Kingdom", "Canada", "Australia", "Kenya",
	"Nigeria", "South Africa", "Singapore", "Germany", "France", "Brazil",
	"China", "Japan", "Russia", "Mexico", "Italy", "Spain", "Turkey",
	"Indonesia", "Pakistan", "Bangladesh", "Philippines", "Vietnam", "Egypt",
	"Argentina", "Poland", "Netherlands", "Saudi Arabia", "Malaysia",
	"Thailand", "Sweden", "Switzerland", "Belgium", "Greece", "Portugal",
	"Czech Republic", "Hungary", "Romania", "Ukraine", "Chile", "Colombia",
	"Peru", "Venezuela", "Morocco", "Algeria", "Ethiopia", "Ghana", "Tanzania",
	"Uganda", "Sri Lanka", "Nepal", "New Zealand", "Ireland", "Denmark",
	"Finland", "Norway", "Austria", "Israel", "South Korea", "UAE", "Qatar",
	"Kuwait", "Oman", "Jordan", "Lebanon", "Iraq", "Iran", "Afghanistan",
	"Myanmar", "Cambodia", "Laos", "Mongolia", "Kazakhstan", "Uzbekistan",
	"Turkmenistan", "Georgia", "Armenia", "Azerbaijan", "Slovakia", "Slovenia",
	"Croatia", "Serbia", "Bulgaria", "Estonia", "Latvia", "Lithuania",
	"Luxembourg", "Iceland", "Malta", "Cyprus", "Costa Rica", "Panama",
	"Uruguay", "Paraguay", "Bolivia", "Ecuador", "Guatemala", "Honduras",
	"El Salvador", "Nicaragua", "Jamaica", "Trinidad and Tobago", "Barbados",
	"Bahamas", "Fiji", "Papua New Guinea", "Zimbabwe", "Zambia", "Botswana",
	"Namibia", "Mozambique", "Angola", "Senegal", "Ivory Coast", "Cameroon",
	"Congo", "Sudan", "Libya", "Tunisia", "Syria", "Yemen", "Palestine",
	"North Korea",
}

// Countries returns the known country names.
func Countries() []string { return append([]string(nil), countries...) }

// SuggestCountries returns up to limit countries whose name contains input,
// ignoring case. An empty input yields no suggestions.
func SuggestCountries(input string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" || limit <= 0 {
		return nil
	}
	var out []string
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c), needle) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
