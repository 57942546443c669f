package models

// Category labels expenses within a group.
type Category struct {
	ID      string
	GroupID string
	Name    string
	// Icon is an identifier understood by the presentation layer (e.g., "Zap").
	Icon  string
	Color string

	CreatedAt int64
}

const (
	// UncategorizedName is the bucket used for expenses without a category.
	UncategorizedName = "Altro"

	// DefaultColor is used when a category has no color and for uncategorized expenses.
	DefaultColor = "#6b7280"

	// DefaultIcon is used for user-created categories without an icon.
	DefaultIcon = "Tag"
)

// DefaultCategories is the set provisioned the first time a group's categories are listed.
var DefaultCategories = []Category{
	{Name: "Alimentari", Icon: "ShoppingCart", Color: "#22c55e"},
	{Name: "Mutuo", Icon: "Home", Color: "#3b82f6"},
	{Name: "Utenze", Icon: "Zap", Color: "#f59e0b"},
	{Name: "Trasporti", Icon: "Car", Color: "#8b5cf6"},
	{Name: "Assicurazioni", Icon: "Shield", Color: "#ef4444"},
	{Name: "Tasse", Icon: "FileText", Color: "#dc2626"},
	{Name: "Svago", Icon: "Gamepad2", Color: "#ec4899"},
	{Name: UncategorizedName, Icon: "MoreHorizontal", Color: DefaultColor},
}
