package validation

import (
	"fmt"
	"strings"

	"github.com/blueprintcu/modeler-backend/models"
)

// TagContext carries the sibling data contextual tag checks need: the tag
// graph for uniqueness/dependency checks and the data model objects for
// property-rule references
type TagContext struct {
	ExistingTags     []models.Tag
	AvailableObjects []models.CustomObject
}

// ValidateTag schema-checks a tag candidate, then layers in name uniqueness,
// qualification-rule soundness and dependency existence/cycle checks against
// the supplied context
func (s *Service) ValidateTag(candidate models.Tag, ctx TagContext) Result[models.Tag] {
	var errs []FieldError

	if len(candidate.Name) < nameMinLen || len(candidate.Name) > nameMaxLen {
		errs = append(errs, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen),
		})
	} else if !tagNameRe.MatchString(candidate.Name) {
		errs = append(errs, FieldError{
			Field:   "name",
			Message: "name must start with an uppercase letter and contain only letters, digits and underscores",
		})
	}

	if !candidate.Category.IsValid() {
		errs = append(errs, FieldError{
			Field:   "category",
			Message: fmt.Sprintf("unknown category %q", candidate.Category),
		})
	}
	if len(candidate.Description) < tagDescMinLen || len(candidate.Description) > tagDescMaxLen {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must be between %d and %d characters", tagDescMinLen, tagDescMaxLen),
		})
	}
	if !hexColorRe.MatchString(candidate.Color) {
		errs = append(errs, FieldError{
			Field:   "color",
			Message: "color must be a hex value like #1A2B3C",
		})
	}
	if !candidate.Behavior.IsValid() {
		errs = append(errs, FieldError{
			Field:   "behavior",
			Message: fmt.Sprintf("unknown behavior %q", candidate.Behavior),
		})
	}

	errs = append(errs, s.checkRuleGroups(candidate.QualificationRules, ctx.AvailableObjects)...)

	if !s.IsTagNameUnique(candidate.Name, candidate.ID, ctx.ExistingTags) {
		errs = append(errs, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("tag with name %q already exists", candidate.Name),
		})
	}

	errs = append(errs, s.ValidateTagDependencies(candidate, ctx.ExistingTags)...)

	if len(errs) > 0 {
		return rejectResult[models.Tag](errs)
	}

	normalized := candidate
	if normalized.QualificationRules == nil {
		normalized.QualificationRules = []models.QualificationRuleGroup{}
	}
	return acceptResult(&normalized)
}

// checkRuleGroups validates the qualification rule tree. Property rules must
// reference objects and fields that exist in the supplied data model
func (s *Service) checkRuleGroups(groups []models.QualificationRuleGroup, objects []models.CustomObject) []FieldError {
	var errs []FieldError

	for gi, group := range groups {
		prefix := fmt.Sprintf("qualificationRules[%d].", gi)
		if !group.Logic.IsValid() {
			errs = append(errs, FieldError{
				Field:   prefix + "logic",
				Message: fmt.Sprintf("logic must be %s or %s", models.RuleLogicAnd, models.RuleLogicOr),
			})
		}
		if len(group.Conditions) == 0 {
			errs = append(errs, FieldError{
				Field:   prefix + "conditions",
				Message: "rule group must carry at least one condition",
			})
		}

		for ci, cond := range group.Conditions {
			condPath := fmt.Sprintf("%sconditions[%d]", prefix, ci)
			switch cond.RuleType {
			case models.RuleTypeProperty:
				if cond.Property == nil {
					errs = append(errs, FieldError{Field: condPath, Message: "property condition payload missing"})
					continue
				}
				errs = append(errs, s.checkPropertyReference(*cond.Property, condPath, objects)...)
			case models.RuleTypeActivity:
				if cond.Activity == nil || cond.Activity.Event == "" {
					errs = append(errs, FieldError{Field: condPath, Message: "activity condition must name an event"})
				}
			case models.RuleTypeAssociation:
				if cond.Association == nil || cond.Association.RelatedObject == "" {
					errs = append(errs, FieldError{Field: condPath, Message: "association condition must name a related object"})
				}
			case models.RuleTypeScore:
				if cond.Score == nil || cond.Score.ScoreField == "" {
					errs = append(errs, FieldError{Field: condPath, Message: "score condition must name a score field"})
				}
			default:
				errs = append(errs, FieldError{
					Field:   condPath + ".ruleType",
					Message: fmt.Sprintf("unknown rule type %q", cond.RuleType),
				})
			}
		}
	}

	return errs
}

// checkPropertyReference verifies a property condition points at an object and
// field that exist in the project's data model. Skipped when no objects were
// supplied: the caller is validating a tag in isolation
func (s *Service) checkPropertyReference(cond models.PropertyCondition, path string, objects []models.CustomObject) []FieldError {
	if objects == nil {
		return nil
	}

	var errs []FieldError
	var target *models.CustomObject
	for i := range objects {
		if strings.EqualFold(objects[i].Name, cond.Object) {
			target = &objects[i]
			break
		}
	}
	if target == nil {
		return append(errs, FieldError{
			Field:   path + ".object",
			Message: fmt.Sprintf("object %q does not exist in the data model", cond.Object),
		})
	}

	for _, field := range target.Fields {
		if strings.EqualFold(field.Name, cond.Field) {
			return errs
		}
	}
	return append(errs, FieldError{
		Field:   path + ".field",
		Message: fmt.Sprintf("field %q does not exist on object %q", cond.Field, cond.Object),
	})
}

// ValidateTagDependencies checks that every dependency references an existing
// tag and that following the dependency edges never returns to the candidate.
// The visited set is copied per branch so sibling paths through a shared
// dependency are not reported as cycles
func (s *Service) ValidateTagDependencies(candidate models.Tag, allTags []models.Tag) []FieldError {
	if len(candidate.Dependencies) == 0 {
		return nil
	}

	byID := make(map[string]models.Tag, len(allTags))
	for _, t := range allTags {
		byID[t.ID] = t
	}
	// the candidate may be an update of a stored tag; its edges win
	byID[candidate.ID] = candidate

	var errs []FieldError
	for _, dep := range candidate.Dependencies {
		if _, ok := byID[dep]; !ok && dep != candidate.ID {
			errs = append(errs, FieldError{
				Field:   "dependencies",
				Message: fmt.Sprintf("dependency %s does not reference an existing tag", dep),
			})
		}
	}

	if s.hasDependencyCycle(candidate.ID, candidate.ID, byID, map[string]bool{}) {
		errs = append(errs, FieldError{
			Field:   "dependencies",
			Message: fmt.Sprintf("tag %q participates in a circular dependency", candidate.Name),
		})
	}

	return errs
}

func (s *Service) hasDependencyCycle(startID, currentID string, byID map[string]models.Tag, visited map[string]bool) bool {
	current, ok := byID[currentID]
	if !ok {
		return false
	}

	for _, dep := range current.Dependencies {
		if dep == startID {
			return true
		}
		if visited[dep] {
			continue
		}
		branch := make(map[string]bool, len(visited)+1)
		for k, v := range visited {
			branch[k] = v
		}
		branch[dep] = true
		if s.hasDependencyCycle(startID, dep, byID, branch) {
			return true
		}
	}
	return false
}

// IsTagNameUnique reports whether no other tag in the collection carries the
// same name, compared case-insensitively and excluding the record's own ID.
// A record with no ID yet excludes nothing
func (s *Service) IsTagNameUnique(name, selfID string, tags []models.Tag) bool {
	lower := strings.ToLower(name)
	for _, tag := range tags {
		if selfID != "" && tag.ID == selfID {
			continue
		}
		if strings.ToLower(tag.Name) == lower {
			return false
		}
	}
	return true
}

// ComplexityBand buckets a complexity score for display
type ComplexityBand string

const (
	ComplexitySimple   ComplexityBand = "simple"
	ComplexityModerate ComplexityBand = "moderate"
	ComplexityComplex  ComplexityBand = "complex"
)

// ComplexityScore scores how expensive a tag is to evaluate: one point per
// condition, an extra point for activity and score conditions (they scan
// history), and one point per dependency
func (s *Service) ComplexityScore(tag models.Tag) (int, ComplexityBand) {
	score := 0
	for _, group := range tag.QualificationRules {
		for _, cond := range group.Conditions {
			switch cond.RuleType {
			case models.RuleTypeProperty, models.RuleTypeAssociation:
				score++
			case models.RuleTypeActivity, models.RuleTypeScore:
				score += 2
			default:
				score++
			}
		}
	}
	score += len(tag.Dependencies)

	switch {
	case score <= 3:
		return score, ComplexitySimple
	case score <= 7:
		return score, ComplexityModerate
	default:
		return score, ComplexityComplex
	}
}
