package challenge

import (
	"github.com/community-health-tech/social-fitness-server/internal/people"
)

// GroupKind tags the two supported group compositions.
type GroupKind string

const (
	GroupSolo GroupKind = "solo"
	GroupDyad GroupKind = "dyad"
)

// ChallengeGroup is the resolved composition of a household for challenge
// purposes. For a dyad the caregiver is the reference person: baselines and
// goals are computed from the caregiver's activity, not the child's.
type ChallengeGroup struct {
	Kind      GroupKind
	Members   []people.Member
	reference people.Member
	child     *people.Member
	caregiver *people.Member
}

// ResolveGroup classifies members into a solo unit or a caregiver/child
// dyad. Dyad is checked first; any composition matching neither returns
// ErrUnsupportedGroup.
func ResolveGroup(members []people.Member) (*ChallengeGroup, error) {
	if caregiver, child, ok := findDyad(members); ok {
		return &ChallengeGroup{
			Kind:      GroupDyad,
			Members:   members,
			reference: *caregiver,
			caregiver: caregiver,
			child:     child,
		}, nil
	}
	if len(members) == 1 {
		return &ChallengeGroup{
			Kind:      GroupSolo,
			Members:   members,
			reference: members[0],
		}, nil
	}
	return nil, ErrUnsupportedGroup
}

func findDyad(members []people.Member) (caregiver, child *people.Member, ok bool) {
	if len(members) < 2 {
		return nil, nil, false
	}
	for i := range members {
		switch members[i].Role {
		case people.RoleParent:
			if caregiver == nil {
				caregiver = &members[i]
			}
		case people.RoleChild:
			if child == nil {
				child = &members[i]
			}
		}
	}
	return caregiver, child, caregiver != nil && child != nil
}

// ReferencePerson is the member whose activity anchors the milestone.
func (g *ChallengeGroup) ReferencePerson() people.Member {
	return g.reference
}

// TargetStrings returns the person-name and pronoun bindings for narrative
// templates. Dyad text names the child first, then the caregiver.
func (g *ChallengeGroup) TargetStrings() map[string]string {
	switch g.Kind {
	case GroupDyad:
		return map[string]string{
			KeyPerson1Name:     g.child.Person.Name,
			KeyPerson1Personal: g.child.Pronoun.Personal,
			KeyPerson1Pronoun:  g.child.Pronoun.Pronoun,
			KeyPerson2Name:     g.caregiver.Person.Name,
			KeyPerson2Personal: g.caregiver.Pronoun.Personal,
			KeyPerson2Pronoun:  g.caregiver.Pronoun.Pronoun,
		}
	default:
		solo := g.reference
		return map[string]string{
			KeyPerson1Name:     solo.Person.Name,
			KeyPerson1Personal: solo.Pronoun.Personal,
			KeyPerson1Pronoun:  solo.Pronoun.Pronoun,
		}
	}
}

// ChallengeMainText picks the confirm text for an unstarted challenge and
// the info text for an ongoing one.
func (g *ChallengeGroup) ChallengeMainText(level Level, goal int, isUnstarted bool) string {
	kind := InfoText
	if isUnstarted {
		kind = ConfirmText
	}
	return RenderFor(g.Kind, level.Unit, kind, g.stringDict(level, &goal))
}

// ChallengeSecondaryText mirrors ChallengeMainText for the subtext line.
func (g *ChallengeGroup) ChallengeSecondaryText(level Level, goal int, isUnstarted bool) string {
	kind := InfoSubtext
	if isUnstarted {
		kind = ConfirmSubtext
	}
	return RenderFor(g.Kind, level.Unit, kind, g.stringDict(level, &goal))
}

func (g *ChallengeGroup) stringDict(level Level, goal *int) map[string]string {
	bindings := g.TargetStrings()
	for k, v := range levelStringDict(level) {
		bindings[k] = v
	}
	if goal != nil {
		bindings[KeyGoal] = formatThousands(*goal)
	}
	return bindings
}
