package catalog

import (
	"fmt"
	"os"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"gopkg.in/yaml.v2"
)

// Catalog - каталог значков, загруженный на старте процесса
// Изменение каталога - это деплой нового файла, рантайм-правок нет
type Catalog struct {
	badges []entity.Badge
	byID   map[string]entity.Badge
}

type catalogFile struct {
	Badges []entity.Badge `yaml:"badges"`
}

// Load читает каталог из YAML файла
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}

	return New(file.Badges)
}

// LoadOrDefault читает каталог из файла, а при пустом пути
// использует встроенный набор значков
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return New(DefaultBadges())
	}
	return Load(path)
}

// New собирает каталог из списка значков с валидацией правил
func New(badges []entity.Badge) (*Catalog, error) {
	byID := make(map[string]entity.Badge, len(badges))

	for _, badge := range badges {
		if badge.ID == "" {
			return nil, fmt.Errorf("badge %q has empty id", badge.Name)
		}
		if _, exists := byID[badge.ID]; exists {
			return nil, fmt.Errorf("duplicate badge id %q", badge.ID)
		}
		if err := validateRule(badge); err != nil {
			return nil, err
		}
		byID[badge.ID] = badge
	}

	return &Catalog{badges: badges, byID: byID}, nil
}

func validateRule(badge entity.Badge) error {
	switch badge.Rule.Kind {
	case entity.RuleReviewCount, entity.RuleDistinctCategories, entity.RuleHelpfulVotes:
		if badge.Rule.Category != "" {
			return fmt.Errorf("badge %q: rule %s does not take a category", badge.ID, badge.Rule.Kind)
		}
	case entity.RuleCategoryDepth:
		if badge.Rule.Category == "" {
			return fmt.Errorf("badge %q: category_depth rule requires a category", badge.ID)
		}
	default:
		return fmt.Errorf("badge %q: unknown rule kind %q", badge.ID, badge.Rule.Kind)
	}

	if badge.Rule.Threshold <= 0 {
		return fmt.Errorf("badge %q: threshold must be positive", badge.ID)
	}

	return nil
}

// Badges возвращает все значки каталога
func (c *Catalog) Badges() []entity.Badge {
	return c.badges
}

// Get возвращает значок по ID
func (c *Catalog) Get(id string) (entity.Badge, bool) {
	badge, ok := c.byID[id]
	return badge, ok
}

// Satisfied проверяет выполняется ли правило значка для истории пользователя
// Чистая функция от истории: порядок событий и время не учитываются
func Satisfied(rule entity.BadgeRule, history *entity.UserHistory) bool {
	switch rule.Kind {
	case entity.RuleReviewCount:
		return history.ReviewCount >= rule.Threshold
	case entity.RuleDistinctCategories:
		return history.DistinctCategories() >= rule.Threshold
	case entity.RuleCategoryDepth:
		return history.ReviewsByCategory[rule.Category] >= rule.Threshold
	case entity.RuleHelpfulVotes:
		return history.HelpfulVotes >= rule.Threshold
	default:
		return false
	}
}

// DefaultBadges - встроенный каталог на случай отсутствия YAML файла
func DefaultBadges() []entity.Badge {
	return []entity.Badge{
		{
			ID:          "first-review",
			Name:        "First Steps",
			Description: "Published your first review",
			Group:       entity.BadgeGroupMilestone,
			Rule:        entity.BadgeRule{Kind: entity.RuleReviewCount, Threshold: 1},
		},
		{
			ID:          "reviewer-10",
			Name:        "Regular",
			Description: "Published 10 reviews",
			Group:       entity.BadgeGroupMilestone,
			Rule:        entity.BadgeRule{Kind: entity.RuleReviewCount, Threshold: 10},
		},
		{
			ID:          "reviewer-50",
			Name:        "Local Voice",
			Description: "Published 50 reviews",
			Group:       entity.BadgeGroupMilestone,
			Rule:        entity.BadgeRule{Kind: entity.RuleReviewCount, Threshold: 50},
		},
		{
			ID:          "explorer-5",
			Name:        "Explorer",
			Description: "Reviewed businesses in 5 different categories",
			Group:       entity.BadgeGroupExplorer,
			Rule:        entity.BadgeRule{Kind: entity.RuleDistinctCategories, Threshold: 5},
		},
		{
			ID:          "cafe-specialist",
			Name:        "Coffee Connoisseur",
			Description: "Reviewed 10 cafes",
			Group:       entity.BadgeGroupSpecialist,
			Rule:        entity.BadgeRule{Kind: entity.RuleCategoryDepth, Threshold: 10, Category: "cafes"},
		},
		{
			ID:          "helpful-25",
			Name:        "Trusted Reviewer",
			Description: "Collected 25 helpful votes across your reviews",
			Group:       entity.BadgeGroupCommunity,
			Rule:        entity.BadgeRule{Kind: entity.RuleHelpfulVotes, Threshold: 25},
		},
	}
}
