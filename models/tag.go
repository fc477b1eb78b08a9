package models

// TagCategory represents the origin family of a tag
type TagCategory string

const (
	TagCategoryOrigin      TagCategory = "origin"
	TagCategoryBehavior    TagCategory = "behavior"
	TagCategoryOpportunity TagCategory = "opportunity"
)

// IsValid reports whether the category is a known member of the enum
func (c TagCategory) IsValid() bool {
	switch c {
	case TagCategoryOrigin, TagCategoryBehavior, TagCategoryOpportunity:
		return true
	}
	return false
}

// TagBehavior represents how a tag is applied and removed over a member's life
type TagBehavior string

const (
	TagBehaviorSetOnce  TagBehavior = "set_once"
	TagBehaviorDynamic  TagBehavior = "dynamic"
	TagBehaviorEvolving TagBehavior = "evolving"
)

// IsValid reports whether the behavior is a known member of the enum
func (b TagBehavior) IsValid() bool {
	switch b {
	case TagBehaviorSetOnce, TagBehaviorDynamic, TagBehaviorEvolving:
		return true
	}
	return false
}

// RuleLogic represents how conditions inside one rule group combine
type RuleLogic string

const (
	RuleLogicAnd RuleLogic = "AND"
	RuleLogicOr  RuleLogic = "OR"
)

// IsValid reports whether the logic is a known member of the enum
func (l RuleLogic) IsValid() bool {
	return l == RuleLogicAnd || l == RuleLogicOr
}

// Tag represents a named rule-based classifier applied to end customers
type Tag struct {
	ID                 string                   `json:"id"`
	Name               string                   `json:"name"`
	Category           TagCategory              `json:"category"`
	Description        string                   `json:"description"`
	Icon               string                   `json:"icon,omitempty"`
	Color              string                   `json:"color"`
	Behavior           TagBehavior              `json:"behavior"`
	IsPermanent        bool                     `json:"isPermanent"`
	QualificationRules []QualificationRuleGroup `json:"qualificationRules"`
	Dependencies       []string                 `json:"dependencies,omitempty"`
	IsCustom           bool                     `json:"isCustom"`
	CreatedAt          string                   `json:"createdAt"`
	UpdatedAt          string                   `json:"updatedAt"`
}

// QualificationRuleGroup carries a combine logic and an ordered, non-empty
// list of conditions
type QualificationRuleGroup struct {
	Logic      RuleLogic       `json:"logic"`
	Conditions []RuleCondition `json:"conditions"`
}

// RuleType discriminates the condition variants of a qualification rule
type RuleType string

const (
	RuleTypeProperty    RuleType = "property"
	RuleTypeActivity    RuleType = "activity"
	RuleTypeAssociation RuleType = "association"
	RuleTypeScore       RuleType = "score"
)

// IsValid reports whether the rule type is a known member of the enum
func (t RuleType) IsValid() bool {
	switch t {
	case RuleTypeProperty, RuleTypeActivity, RuleTypeAssociation, RuleTypeScore:
		return true
	}
	return false
}

// RuleCondition is a tagged union keyed by RuleType. Exactly one of the
// variant payloads must be set, matching the discriminator
type RuleCondition struct {
	RuleType    RuleType              `json:"ruleType"`
	Property    *PropertyCondition    `json:"property,omitempty"`
	Activity    *ActivityCondition    `json:"activity,omitempty"`
	Association *AssociationCondition `json:"association,omitempty"`
	Score       *ScoreCondition       `json:"score,omitempty"`
}

// Payload returns the variant payload matching the discriminator, or nil when
// the condition is malformed
func (c RuleCondition) Payload() any {
	switch c.RuleType {
	case RuleTypeProperty:
		if c.Property != nil {
			return c.Property
		}
	case RuleTypeActivity:
		if c.Activity != nil {
			return c.Activity
		}
	case RuleTypeAssociation:
		if c.Association != nil {
			return c.Association
		}
	case RuleTypeScore:
		if c.Score != nil {
			return c.Score
		}
	}
	return nil
}

// PropertyCondition matches a field value on a modeled object
type PropertyCondition struct {
	Object   string `json:"object"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ActivityCondition matches event occurrences inside a rolling window
type ActivityCondition struct {
	Event      string `json:"event"`
	MinCount   int    `json:"minCount"`
	WindowDays int    `json:"windowDays"`
}

// AssociationCondition matches the number of related objects of one type
type AssociationCondition struct {
	AssociationType string `json:"associationType"`
	RelatedObject   string `json:"relatedObject"`
	MinCount        int    `json:"minCount"`
}

// ScoreCondition matches a score field against a threshold, with an optional
// hysteresis band so members do not flap in and out of the tag
type ScoreCondition struct {
	ScoreField     string  `json:"scoreField"`
	Operator       string  `json:"operator"`
	Threshold      float64 `json:"threshold"`
	HysteresisBand float64 `json:"hysteresisBand,omitempty"`
}
