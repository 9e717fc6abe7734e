package matching

import "strings"

// blacklistTokens excludes non-food and prepared-dish catalog noise from
// ingredient matching: pet food, cosmetics, baby food, desserts and ready
// meals all share names with raw ingredients ("terrine", "vanille", ...).
var blacklistTokens = []string{
	// Ready meals
	"Pizza", "Burger", "Sandwich", "Box", "Salade composée", "Taboulé",
	"Plat", "Micro-ondes", "Poêlée",
	// Baby food
	"Bébé", "Blédichef", "Nestlé", "12mois", "8mois", "Assiette",
	"Gourde", "Pot",
	// Pet food
	"Chat", "Chien", "Croquette", "Terrine", "Litière", "Animal",
	"Patée", "Effiloché", "Sachet", "Felix", "Gourmet", "Sheba",
	// Cosmetics and hygiene
	"Soin", "Visage", "Corps", "Main", "Douche", "Shampoing", "Savon",
	"Masque", "Lotion", "BB", "CC", "Démaquillant", "Solaire",
	"Cheveux", "Dentifrice",
	// Ice cream
	"Glace", "Bâtonnet", "Sorbet", "Cone", "Bac", "Vanille",
	"Chocolat", "Caramel", "Mystère",
	// Sweets and desserts
	"Biscuit", "Gâteau", "Madeleine", "Brioche", "Bonbon", "Confiserie",
	"Nappage", "Dessert", "Cookie",
	// Pasta shapes (matched terms like "blé" drown in them)
	"Pâtes", "Coquillette", "Tagliatelle", "Nouilles", "Alsace",
}

// foldedBlacklist is blacklistTokens pre-folded for comparison.
var foldedBlacklist = func() []string {
	out := make([]string, len(blacklistTokens))
	for i, t := range blacklistTokens {
		out[i] = Fold(t)
	}
	return out
}()

// Blacklisted reports whether a product name contains any exclusion token,
// case- and diacritic-insensitively.
func Blacklisted(name string) bool {
	folded := Fold(name)
	for _, token := range foldedBlacklist {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}
