package catalog

// Branching and classification rules are data, not code: the thresholds were
// chosen by the research team and get retuned between waves. Expressions are
// evaluated over a map with one entry per question code; multi-select answers
// appear as string slices of base option codes, single answers as the base
// option code, open answers as the raw text. Absent answers are present with
// zero values, so every expression is total.

// FollowupRules decide whether the respondent enters the follow-up stage.
// Any matching rule is enough. The triggering codes are the screening options
// that describe bullying aimed at speech or language choice.
var FollowupRules = []string{
	`"Q1_OP1" in Q1 or "Q1_OP2" in Q1 or "Q1_OP3" in Q1`,
	`"Q2_OP1" in Q2 or "Q2_OP2" in Q2 or "Q2_OP3" in Q2`,
}

// ClassificationRule maps follow-up answers to an aggression-type label.
type ClassificationRule struct {
	Label      string
	Expression string
}

// Aggression-type labels, the closed result set of Classify.
const (
	AggressionCyber   = "cyber"
	AggressionDirect  = "direct"
	AggressionPassive = "passive"
	AggressionGeneral = "general"
)

// ClassificationRules are checked in order; the first match wins. An online
// venue dominates, explicit insults rank before covert exclusion, and
// everything else falls through to the general label.
var ClassificationRules = []ClassificationRule{
	{Label: AggressionCyber, Expression: `"LQ5_OP2" in LQ5 or "LQ1_OP5" in LQ1`},
	{Label: AggressionDirect, Expression: `LQ2 == "LQ2_OP1" or LQ2 == "LQ2_OP2"`},
	{Label: AggressionPassive, Expression: `LQ2 == "LQ2_OP3" or "LQ1_OP4" in LQ1`},
}

var recommendations = map[string]string{
	AggressionCyber: "Рекомендации при кибербуллинге:\n\n" +
		"• Сохраняй скриншоты оскорбительных сообщений и комментариев - это доказательства.\n" +
		"• Используй функции блокировки и жалоб на платформе, где это происходит.\n" +
		"• Не отвечай на провокации: агрессор ждёт реакции.\n" +
		"• Расскажи взрослому, которому доверяешь, и покажи сохранённые материалы.\n" +
		"• Если угрозы серьёзные, обратись к школьному психологу или в службу поддержки платформы.",
	AggressionDirect: "Рекомендации при прямой агрессии:\n\n" +
		"• Твоя речь и твой язык - не недостаток. Ты не обязан оправдываться.\n" +
		"• Постарайся не оставаться один на один с агрессором.\n" +
		"• Спокойный ответ или выход из ситуации - это не слабость.\n" +
		"• Обязательно расскажи взрослому: учителю, родителям, психологу.\n" +
		"• Если оскорбления продолжаются, фиксируй когда и где это происходит.",
	AggressionPassive: "Рекомендации при скрытой агрессии:\n\n" +
		"• Игнорирование и исключение из общения - тоже форма буллинга, и это не твоя вина.\n" +
		"• Ищи поддержку у тех, кто относится к тебе дружелюбно, в том числе вне этого круга.\n" +
		"• Называй происходящее прямо, когда говоришь со взрослыми: «меня исключают из общения».\n" +
		"• Школьный психолог поможет разобраться в ситуации и спланировать шаги.",
	AggressionGeneral: "Общие рекомендации:\n\n" +
		"• То, что происходит, - не твоя вина.\n" +
		"• Не держи это в себе: расскажи взрослому, которому доверяешь.\n" +
		"• Поддержка друзей и близких помогает легче переносить такие ситуации.\n" +
		"• Если тяжело, обратись к школьному психологу или на линию доверия.",
}

// RecommendationFor returns the canned recommendation text for a label,
// falling back to the general one.
func RecommendationFor(label string) string {
	if text, ok := recommendations[label]; ok {
		return text
	}
	return recommendations[AggressionGeneral]
}

// RejectionMessage is shown when screening answers do not indicate the
// linguistic bullying track this survey studies.
const RejectionMessage = "Спасибо за ответы! Судя по ним, твоя ситуация не связана " +
	"с языковым буллингом, на котором специализируется этот опрос. " +
	"Если тебе нужна помощь, обратись к школьному психологу или к взрослому, которому доверяешь."

// FollowupIntro is shown before the first follow-up question.
const FollowupIntro = "Похоже, ты сталкиваешься с языковым буллингом. " +
	"Ответь, пожалуйста, ещё на несколько уточняющих вопросов - это поможет подобрать рекомендации."

// CompletedMessage is shown when the survey finishes.
const CompletedMessage = "Опрос завершён. Спасибо, что поделился! Ниже - рекомендации для твоей ситуации."
