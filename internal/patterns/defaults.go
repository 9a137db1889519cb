package patterns

import "github.com/custodia-labs/verdict-cli/internal/core/domain"

const (
	datePattern     = `\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}`
	fullDatePattern = `\d{1,2}[/.-]\d{1,2}[/.-]\d{4}`
	petitionerRoles = `מבקשים|מבקשת|מבקש|עותרים|עותרת|עותר|תובעים|תובעת|תובע|מערערים|מערערת|מערער`
	respondentRoles = `משיבים|משיבה|משיב|נתבעים|נתבעת|נתבע`
	cities          = `ירושלים|תל[ -]אביב(?:[ -]יפו)?|חיפה|באר[ -]שבע|נצרת|לוד|פתח[ -]תקווה|ראשון לציון|רחובות|אשדוד|אשקלון|נתניה|חדרה|טבריה|צפת|עכו|הרצליה|כפר סבא|רמלה|אילת|קריות`
)

// DefaultSpecs returns the built-in field specs for Hebrew verdicts.
// Patterns are ordered from most to least precise. Horizontal whitespace
// is spelled [ \t] so no match runs onto the next line.
func DefaultSpecs() []domain.FieldSpec {
	return []domain.FieldSpec{
		{
			Name: domain.FieldCourtName,
			Primary: []string{
				`(?:ערכאה|בית משפט)[ \t]*:[ \t]*([^\n]+)`,
				`בית (?:המשפט|הדין)[^\n]*`,
			},
			Fallback: []string{`(בית המשפט[^\n]+|בית הדין[^\n]+)`},
			Keywords: []string{"בית המשפט", "בית הדין", "בית משפט", "בית דין"},
			// A court match may run into the judge line; keep the title only.
			FirstLine: true,
		},
		{
			Name: domain.FieldJudgeName,
			Primary: []string{
				`כבוד השופט(?:ת)?[ \t]+[^\n]+`,
				`כבוד (?:הדיינים|הדיינת|הדיין)[^\n]*`,
				`כב(?:'|׳)[ \t]*השופט(?:ת)?[ \t]+[^\n]+`,
				`^[ \t]*הרב[ \t]+[^\n]+`,
			},
			Fallback: []string{`(כבוד השופט(?:ת)?[^\n]+|כבוד (?:הדיינים|הדיין)[^\n]+|הרב[^\n]+)`},
			Keywords: []string{"שופט", "השופט", "דיין", "הרב", "כבוד"},
		},
		{
			Name: domain.FieldCaseNumber,
			Primary: []string{
				`תיק(?:[ \t]+מס(?:'|׳|פר)?)?[ \t]*:?[ \t]*(\d[\d/-]*)`,
				`(?:ע"א|ע״א|ת"א|ת״א|בג"ץ|בג״ץ|רע"א|רע״א|ע"פ|ע״פ|ת"פ|ת״פ|עמ"ש|עמ״ש|תמ"ש|תמ״ש)[ \t]*(\d[\d/-]*)`,
				`מספר[ \t]+(?:תיק|הליך)[ \t]*:?[ \t]*(\d[\d/-]*)`,
			},
			Fallback: []string{`(\d[\d/-]*)`},
			Keywords: []string{"תיק", "מספר", `ע"א`, `בג"ץ`, `ת"א`},
		},
		{
			Name: domain.FieldVerdictDate,
			Primary: []string{
				`תאריך[ \t]*:?[ \t]*(` + datePattern + `)`,
				`נית(?:ן|נה)[^\n]*?(` + fullDatePattern + `)`,
			},
			Fallback: []string{
				`(\d{1,2}/\d{1,2}/\d{4})`,
				`(\d{1,2}-\d{1,2}-\d{4})`,
				`(\d{1,2}\.\d{1,2}\.\d{4})`,
			},
			Keywords: []string{"תאריך", "ניתן", "ניתנה"},
			Probe:    true,
		},
		{
			Name: domain.FieldParties,
			Primary: []string{
				`בין[ \t]+ה?(?:` + petitionerRoles + `)[^\n]*\n[^\n]*(?:לבין|נגד)[^\n]*`,
				`(?:הצדדים|צדדים)[ \t]*:[ \t]*([^\n]+)`,
			},
			Keywords: []string{"בין", "נגד", "התובע", "הנתבע", "המבקש", "המשיב", "העותר"},
			Multi:    true,
		},
		{
			Name: domain.FieldVerdictType,
			Primary: []string{
				`^[ \t]*((?:פסק|גזר)[ -]דין[^\n]*|החלטה|צו(?:[ \t][^\n]*)?)[ \t]*$`,
			},
			Keywords: []string{"פסק דין", "פסק-דין", "גזר דין", "החלטה"},
		},
		{
			Name: domain.FieldLawReferences,
			Primary: []string{
				`((?:חוק|פקודת|תקנות)[ \t][^\n;.]{2,120})`,
			},
			Fallback: []string{`((?:חוק|פקודת|תקנות)[ \t][^\n;.]+)`},
			Keywords: []string{"חוק", "פקודת", "תקנות", "סעיף"},
			Multi:    true,
		},
		{
			Name: domain.FieldLawyers,
			Primary: []string{
				`(?:ב"כ|ב״כ|באמצעות)[^\n:]*:?[ \t]*(?:עו"ד|עו״ד)[ \t]+([^\n]+)`,
				`(?:עו"ד|עו״ד)[ \t]+([^\n]+)`,
			},
			Fallback: []string{`(?:עו"ד|עו״ד)[ \t]+([^\n]+)`},
			Keywords: []string{`עו"ד`, "עו״ד", `ב"כ`, "ב״כ"},
			Multi:    true,
		},
		{
			Name: domain.FieldRespondents,
			Primary: []string{
				`^[ \t]*(?:לבין[ \t]+|נגד[ \t]+)?ה(?:` + respondentRoles + `)[ \t]*:[ \t]*([^\n]+)`,
			},
			Fallback: []string{`:[ \t]*([^\n]+)`},
			Keywords: []string{"המשיב", "הנתבע"},
			Multi:    true,
		},
		{
			Name: domain.FieldPetitioners,
			Primary: []string{
				`^[ \t]*(?:בין[ \t]+)?ה(?:` + petitionerRoles + `)[ \t]*:[ \t]*([^\n]+)`,
			},
			Fallback: []string{`:[ \t]*([^\n]+)`},
			Keywords: []string{"המבקש", "העותר", "התובע", "המערער"},
			Multi:    true,
		},
		{
			Name: domain.FieldLocation,
			Primary: []string{
				`(?:מקום|מחוז)[ \t]*:[ \t]*([^\n]+)`,
				`בית (?:המשפט|הדין)[^\n]*?[ \t]ב(` + cities + `)`,
			},
			Fallback: []string{`מחוז[ \t]+([^\n,]+)`},
			Keywords: []string{"מחוז"},
		},
		{
			Name: domain.FieldCourtSection,
			Primary: []string{
				`בשבתו[ \t]+כ([^\n]+)`,
				`(?:מחלקה|מדור)[ \t]*:[ \t]*([^\n]+)`,
			},
			Fallback: []string{`בשבתו[ \t]+כ([^\n]+)`},
			Keywords: []string{"בשבתו", "מחלקה"},
		},
		{
			Name: domain.FieldSummary,
			Primary: []string{
				`(?:תקציר|סיכום|תמצית)[ \t]*:[ \t]*([^\n]+)`,
			},
		},
	}
}
