// Package assignment maintains the organization -> learning path and
// organization -> assessment associations. Learning paths are referenced by id,
// assessments by code. Both sets live on the organization row.
package assignment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
)

// MissingName is the display name of a reference whose item was deleted.
const MissingName = "(deleted)"

var (
	// errors
	ErrNoOrganizations     = errors.New("select at least one organization")
	ErrUnknownOrganization = errors.New("unknown organization")
	ErrUnknownKind         = errors.New("unknown assignment kind")
	ErrItemNotFound        = core.NewNotFoundError("assigned item not found")
)

type Kind string

const (
	LearningPaths Kind = "learning_paths"
	Assessments   Kind = "assessments"
)

func (k Kind) Valid() bool {
	return k == LearningPaths || k == Assessments
}

// Label is the human name of one item of this kind.
func (k Kind) Label() string {
	if k == Assessments {
		return "Assessment"
	}
	return "Learning path"
}

// Ref is an assignment resolved for display.
type Ref struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Missing bool   `json:"missing"`
}

// Assignee is an organization holding an item.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PartialError reports a bulk assignment that failed after some organizations were saved.
// Saved organizations are not rolled back.
type PartialError struct {
	OrganizationID string
	Saved          int
	Err            error
}

func (pe *PartialError) Error() string {
	return fmt.Sprintf("assigning to organization %s (%d organization(s) already saved): %v", pe.OrganizationID, pe.Saved, pe.Err)
}

func (pe *PartialError) Cause() error { return pe.Err }

// PruneReport counts the dangling references removed by Registry.PruneDangling.
type PruneReport struct {
	Organizations int `json:"organizations"`
	LearningPaths int `json:"learning_paths"`
	Assessments   int `json:"assessments"`
}

type Registry struct {
	orgs        organization.Repository
	paths       learningpath.Repository
	assessments assessment.Repository
	logger      core.Logger
}

var _ organization.Catalog = (*Registry)(nil)

func NewRegistry(
	orgs organization.Repository,
	paths learningpath.Repository,
	assessments assessment.Repository,
	logger core.Logger,
) *Registry {
	return &Registry{orgs: orgs, paths: paths, assessments: assessments, logger: logger}
}

// CountDistinctAssignees returns the cardinality of the union of `lists`.
// An organization appearing in several lists is counted once.
func CountDistinctAssignees(lists ...[]string) int {
	seen := make(core.Set)
	for _, list := range lists {
		seen.Add(list...)
	}
	return seen.Len()
}

func refsOf(org *organization.Organization, kind Kind) []string {
	if kind == Assessments {
		return org.AssignedAssessments
	}
	return org.AssignedLearningPaths
}

func setRefs(org *organization.Organization, kind Kind, refs []string) {
	if kind == Assessments {
		org.AssignedAssessments = refs
	} else {
		org.AssignedLearningPaths = refs
	}
}

func normalizeRef(kind Kind, ref string) string {
	if kind == Assessments {
		return assessment.NormalizeCode(ref)
	}
	return core.CleanString(ref)
}

// names returns {ref: display name} for every existing item of `kind` among `refs`.
func (r *Registry) names(ctx context.Context, kind Kind, refs []string) (map[string]string, error) {
	names := make(map[string]string, len(refs))
	if len(refs) == 0 {
		return names, nil
	}

	switch kind {
	case LearningPaths:
		paths, err := r.paths.Query(ctx, learningpath.QueryFilter{IDs: refs}, nil)
		if err != nil {
			return nil, errors.Wrap(err, "querying learning paths")
		}
		for _, lp := range paths {
			names[lp.ID] = lp.Title
		}
	case Assessments:
		items, err := r.assessments.Query(ctx, assessment.QueryFilter{Codes: refs}, nil)
		if err != nil {
			return nil, errors.Wrap(err, "querying assessments")
		}
		for _, a := range items {
			names[a.Code] = a.Title
		}
	default:
		return nil, ErrUnknownKind
	}
	return names, nil
}

func (r *Registry) missing(ctx context.Context, kind Kind, refs []string) ([]string, error) {
	refs = core.UniqueStrings(refs)
	names, err := r.names(ctx, kind, refs)
	if err != nil {
		return nil, err
	}
	missing := make([]string, 0)
	for _, ref := range refs {
		if _, ok := names[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing, nil
}

// MissingLearningPaths returns the ids among `ids` that match no learning path.
func (r *Registry) MissingLearningPaths(ctx context.Context, ids []string) ([]string, error) {
	return r.missing(ctx, LearningPaths, ids)
}

// MissingAssessments returns the codes among `codes` that match no assessment.
func (r *Registry) MissingAssessments(ctx context.Context, codes []string) ([]string, error) {
	return r.missing(ctx, Assessments, codes)
}

func (r *Registry) checkItem(ctx context.Context, kind Kind, ref string) error {
	missing, err := r.missing(ctx, kind, []string{ref})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return ErrItemNotFound
	}
	return nil
}

// Assign adds `ref` to every organization of `orgIDs` that does not hold it yet.
// All organizations are checked before the first write. It returns the number of
// organizations newly holding the item.
func (r *Registry) Assign(ctx context.Context, kind Kind, ref string, orgIDs []string) (int, error) {
	if !kind.Valid() {
		return 0, ErrUnknownKind
	}
	ref = normalizeRef(kind, ref)
	orgIDs = core.UniqueStrings(core.CleanStrings(orgIDs))
	if len(orgIDs) == 0 {
		return 0, core.NewValidationError(ErrNoOrganizations, core.FieldError{Field: "organization_ids", Error: ErrNoOrganizations.Error()})
	}
	if err := r.checkItem(ctx, kind, ref); err != nil {
		return 0, err
	}

	orgs, err := r.orgs.Query(ctx, organization.QueryFilter{IDs: orgIDs}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "querying organizations")
	}
	byID := make(map[string]organization.Organization, len(orgs))
	for _, org := range orgs {
		byID[org.ID] = org
	}
	unknown := make([]string, 0)
	for _, id := range orgIDs {
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		msg := fmt.Sprintf("%s(s): %s", ErrUnknownOrganization, strings.Join(unknown, ", "))
		return 0, core.NewValidationError(ErrUnknownOrganization, core.FieldError{Field: "organization_ids", Error: msg})
	}

	var touched int
	for _, id := range orgIDs {
		org := byID[id]
		refs := refsOf(&org, kind)
		if core.Contains(refs, ref) {
			continue
		}
		setRefs(&org, kind, core.UniqueStrings(refs, []string{ref}))
		org.UpdatedAt = time.Now().UTC()
		if _, err := r.orgs.Update(ctx, org); err != nil {
			return touched, &PartialError{OrganizationID: id, Saved: touched, Err: err}
		}
		touched++
	}
	return touched, nil
}

// Unassign removes `ref` from organization `orgID`; it is a no-op when absent.
func (r *Registry) Unassign(ctx context.Context, kind Kind, orgID, ref string) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	ref = normalizeRef(kind, ref)
	org, err := r.orgs.Get(ctx, orgID)
	if err != nil {
		return err
	}
	refs := refsOf(&org, kind)
	if !core.Contains(refs, ref) {
		return nil
	}
	setRefs(&org, kind, core.Without(refs, ref))
	org.UpdatedAt = time.Now().UTC()
	_, err = r.orgs.Update(ctx, org)
	return errors.Wrap(err, "updating organization")
}

// Toggle flips the membership of `ref` in organization `orgID` and returns it.
// Dangling references can be toggled off but not on.
func (r *Registry) Toggle(ctx context.Context, kind Kind, orgID, ref string) (bool, error) {
	if !kind.Valid() {
		return false, ErrUnknownKind
	}
	ref = normalizeRef(kind, ref)
	org, err := r.orgs.Get(ctx, orgID)
	if err != nil {
		return false, err
	}

	refs := refsOf(&org, kind)
	assigned := !core.Contains(refs, ref)
	if assigned {
		if err := r.checkItem(ctx, kind, ref); err != nil {
			return false, err
		}
		setRefs(&org, kind, core.UniqueStrings(refs, []string{ref}))
	} else {
		setRefs(&org, kind, core.Without(refs, ref))
	}
	org.UpdatedAt = time.Now().UTC()
	if _, err := r.orgs.Update(ctx, org); err != nil {
		return false, errors.Wrap(err, "updating organization")
	}
	return assigned, nil
}

// AssignedItems resolves the `kind` assignments of organization `orgID`, in stored order.
// References to deleted items are kept and flagged as missing.
func (r *Registry) AssignedItems(ctx context.Context, orgID string, kind Kind) ([]Ref, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	org, err := r.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	refs := refsOf(&org, kind)
	names, err := r.names(ctx, kind, refs)
	if err != nil {
		return nil, err
	}

	resolved := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		name, ok := names[ref]
		if !ok {
			resolved = append(resolved, Ref{Ref: ref, Name: MissingName, Missing: true})
			continue
		}
		resolved = append(resolved, Ref{Ref: ref, Name: name})
	}
	return resolved, nil
}

// Assignees returns the organizations holding `ref`, by name.
func (r *Registry) Assignees(ctx context.Context, kind Kind, ref string) ([]Assignee, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	ref = normalizeRef(kind, ref)
	ordering := []core.DBOrdering{{Field: "name", Ascending: true}}
	orgs, err := r.orgs.Query(ctx, organization.QueryFilter{}, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}

	assignees := make([]Assignee, 0)
	for i := range orgs {
		if core.Contains(refsOf(&orgs[i], kind), ref) {
			assignees = append(assignees, Assignee{ID: orgs[i].ID, Name: orgs[i].Name})
		}
	}
	return assignees, nil
}

func (r *Registry) CountAssignees(ctx context.Context, kind Kind, ref string) (int, error) {
	assignees, err := r.Assignees(ctx, kind, ref)
	if err != nil {
		return 0, err
	}
	return len(assignees), nil
}

// AssigneeIndex inverts the organization -> item associations of `kind`: {ref: [organization ids]}.
// Organization ids are sorted by organization name.
func (r *Registry) AssigneeIndex(ctx context.Context, kind Kind) (map[string][]string, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	ordering := []core.DBOrdering{{Field: "name", Ascending: true}}
	orgs, err := r.orgs.Query(ctx, organization.QueryFilter{}, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}

	index := make(map[string][]string)
	for i := range orgs {
		for _, ref := range refsOf(&orgs[i], kind) {
			index[ref] = append(index[ref], orgs[i].ID)
		}
	}
	return index, nil
}

// CountAllAssignees counts the organizations holding at least one existing item of `kind`.
// Dangling references do not make an organization an assignee.
func (r *Registry) CountAllAssignees(ctx context.Context, kind Kind) (int, error) {
	index, err := r.AssigneeIndex(ctx, kind)
	if err != nil {
		return 0, err
	}
	refs := make([]string, 0, len(index))
	for ref := range index {
		refs = append(refs, ref)
	}
	names, err := r.names(ctx, kind, refs)
	if err != nil {
		return 0, err
	}
	lists := make([][]string, 0, len(names))
	for ref := range names {
		lists = append(lists, index[ref])
	}
	return CountDistinctAssignees(lists...), nil
}

// PruneDangling removes, from every organization, the references to deleted items.
func (r *Registry) PruneDangling(ctx context.Context) (PruneReport, error) {
	var report PruneReport

	orgs, err := r.orgs.Query(ctx, organization.QueryFilter{}, nil)
	if err != nil {
		return report, errors.Wrap(err, "querying organizations")
	}
	var allPaths, allCodes []string
	for _, org := range orgs {
		allPaths = append(allPaths, org.AssignedLearningPaths...)
		allCodes = append(allCodes, org.AssignedAssessments...)
	}
	missingPaths, err := r.MissingLearningPaths(ctx, allPaths)
	if err != nil {
		return report, err
	}
	missingCodes, err := r.MissingAssessments(ctx, allCodes)
	if err != nil {
		return report, err
	}
	if len(missingPaths) == 0 && len(missingCodes) == 0 {
		return report, nil
	}

	danglingPaths, danglingCodes := core.NewSet(missingPaths...), core.NewSet(missingCodes...)
	for _, org := range orgs {
		var removedPaths, removedCodes []string
		for _, id := range org.AssignedLearningPaths {
			if danglingPaths.Has(id) {
				removedPaths = append(removedPaths, id)
			}
		}
		for _, code := range org.AssignedAssessments {
			if danglingCodes.Has(code) {
				removedCodes = append(removedCodes, code)
			}
		}
		if len(removedPaths) == 0 && len(removedCodes) == 0 {
			continue
		}

		org.AssignedLearningPaths = core.Without(org.AssignedLearningPaths, removedPaths...)
		org.AssignedAssessments = core.Without(org.AssignedAssessments, removedCodes...)
		org.UpdatedAt = time.Now().UTC()
		if _, err := r.orgs.Update(ctx, org); err != nil {
			return report, errors.Wrapf(err, "updating organization %s", org.ID)
		}
		report.Organizations++
		report.LearningPaths += len(removedPaths)
		report.Assessments += len(removedCodes)

		sort.Strings(removedPaths)
		sort.Strings(removedCodes)
		if r.logger != nil {
			r.logger.Info(fmt.Sprintf("pruned dangling references of organization %q", org.Name),
				map[string]interface{}{"learning_paths": removedPaths, "assessments": removedCodes})
		}
	}
	return report, nil
}
