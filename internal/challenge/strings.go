package challenge

import (
	"strconv"
	"strings"
)

// Placeholder keys for narrative templates.
const (
	KeyGoal          = "%GOAL%"
	KeyGoalUnit      = "%GOAL_UNIT%"
	KeyGoalDuration  = "%GOAL_DURATION%"
	KeyTotalDuration = "%TOTAL_DURATION%"

	KeyPerson1Name     = "%PERSON1_NAME%"
	KeyPerson1Personal = "%PERSON1_PERSONAL%"
	KeyPerson1Pronoun  = "%PERSON1_PRONOUN%"
	KeyPerson2Name     = "%PERSON2_NAME%"
	KeyPerson2Personal = "%PERSON2_PERSONAL%"
	KeyPerson2Pronoun  = "%PERSON2_PRONOUN%"
)

// TextKind selects which narrative line a template renders.
type TextKind string

const (
	PickText        TextKind = "pick_text"
	PickSubtext     TextKind = "pick_subtext"
	PickDesc        TextKind = "pick_desc"
	ConfirmText     TextKind = "confirm_text"
	ConfirmSubtext  TextKind = "confirm_subtext"
	InfoText        TextKind = "info_text"
	InfoSubtext     TextKind = "info_subtext"
	CompleteText    TextKind = "complete_text"
	CompleteSubtext TextKind = "complete_subtext"
)

var soloStringsEnUS = map[Unit]map[TextKind]string{
	UnitSteps: {
		PickText:    "Pick a steps adventure",
		PickSubtext: "%PERSON1_NAME%, you need to do one of these adventures within %TOTAL_DURATION%.",
		PickDesc:    "Walk around %GOAL% steps every %GOAL_DURATION%!",

		ConfirmText:    "Walk around %GOAL% steps every %GOAL_DURATION%",
		ConfirmSubtext: "As an example, walking around the Boston Common is 2000 steps.",

		InfoText:    "This is your current Steps Adventure",
		InfoSubtext: "%PERSON1_NAME%, you need to walk %GOAL% steps every %GOAL_DURATION% for %TOTAL_DURATION%.",

		CompleteText:    "You won the steps challenge",
		CompleteSubtext: "Great job %PERSON1_NAME%!",
	},
}

var dyadStringsEnUS = map[Unit]map[TextKind]string{
	UnitSteps: {
		PickText:    "Pick a steps adventure",
		PickSubtext: "%PERSON1_NAME%, you and %PERSON2_PERSONAL% need to do one of these adventures within %TOTAL_DURATION%.",
		PickDesc:    "Walk around %GOAL% steps every %GOAL_DURATION%!",

		ConfirmText:    "Walk around %GOAL% steps every %GOAL_DURATION%",
		ConfirmSubtext: "As an example, walking around the Boston Common is 2000 steps.",

		InfoText:    "This is your current Steps Adventure",
		InfoSubtext: "%PERSON1_NAME%, you and %PERSON2_PERSONAL% need to walk %GOAL% steps every %GOAL_DURATION% for %TOTAL_DURATION%.",

		CompleteText:    "You won the steps challenge",
		CompleteSubtext: "Great job %PERSON1_NAME% and %PERSON2_NAME%!",
	},
}

// Render substitutes every placeholder binding into template.
func Render(template string, bindings map[string]string) string {
	out := template
	for key, value := range bindings {
		out = strings.ReplaceAll(out, key, value)
	}
	return out
}

// RenderFor looks up the template for a group kind, unit, and text kind,
// then renders it. Unknown units fall back to the steps table, which is the
// only unit with launched copy.
func RenderFor(kind GroupKind, unit Unit, text TextKind, bindings map[string]string) string {
	table := soloStringsEnUS
	if kind == GroupDyad {
		table = dyadStringsEnUS
	}
	unitTable, ok := table[unit]
	if !ok {
		unitTable = table[UnitSteps]
	}
	return Render(unitTable[text], bindings)
}

func levelStringDict(level Level) map[string]string {
	return map[string]string{
		KeyGoal:          formatThousands(level.Goal),
		KeyGoalUnit:      string(level.Unit),
		KeyGoalDuration:  DurationLabels[level.UnitDuration],
		KeyTotalDuration: DurationLabels[level.TotalDuration],
	}
}

// formatThousands renders 12345 as "12,345" for narrative text.
func formatThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}
