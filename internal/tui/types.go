package tui

const heroTagline = "Research Paper Recommendation System"

const (
	minBodyWidth          = 40
	bodyHorizontalPadding = 4
	abstractPreviewLimit  = 150
)

var quickSearches = []string{
	"Machine Learning",
	"Artificial Intelligence",
	"Data Science",
	"Computer Vision",
	"Natural Language Processing",
	"Neural Networks",
	"Deep Learning",
	"Reinforcement Learning",
}

const minBodyHeight = 5
