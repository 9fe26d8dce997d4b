package catalog

// Survey content. Codes are stable wire identifiers (they end up in the
// database and in CSV exports); labels and prompts are display text.

var screeningQuestions = []Question{
	{
		Code:   "Q1",
		Prompt: "Как проявляется буллинг, с которым ты столкнулся? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "Q1_OP1", Label: "Насмешки над речью (акцент, произношение)"},
			{Code: "Q1_OP2", Label: "Критика за язык"},
			{Code: "Q1_OP3", Label: "Требования говорить на другом языке"},
			{Code: "Q1_OP4", Label: "Насмешки над внешностью"},
			{Code: "Q1_OP5", Label: "Физическое насилие"},
			{Code: "Q1_OP6", Label: "Исключение из общения"},
			{Code: "Q1_OP7", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "Q2",
		Prompt: "Как ты думаешь, из-за чего это происходит? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "Q2_OP1", Label: "Акцент или произношение"},
			{Code: "Q2_OP2", Label: "Выбор языка общения"},
			{Code: "Q2_OP3", Label: "Незнание какого-то языка"},
			{Code: "Q2_OP4", Label: "Внешность"},
			{Code: "Q2_OP5", Label: "Поведение или характер"},
			{Code: "Q2_OP6", Label: "Материальное положение"},
			{Code: "Q2_OP7", Label: "Не знаю / Другое"},
		},
		Required: true,
	},
	{
		Code:   "Q3",
		Prompt: "Кто чаще всего это делает?",
		Kind:   Single,
		Options: []Option{
			{Code: "Q3_OP1", Label: "Один человек"},
			{Code: "Q3_OP2", Label: "Группа людей"},
			{Code: "Q3_OP3", Label: "Меняется"},
			{Code: "Q3_OP4", Label: "Затрудняюсь ответить"},
		},
		Required: true,
	},
	{
		Code:   "Q4",
		Prompt: "Что ты чувствуешь из-за этого? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "Q4_OP1", Label: "Обида, грусть"},
			{Code: "Q4_OP2", Label: "Злость, раздражение"},
			{Code: "Q4_OP3", Label: "Страх, тревога"},
			{Code: "Q4_OP4", Label: "Стыд, смущение"},
			{Code: "Q4_OP5", Label: "Беспомощность"},
			{Code: "Q4_OP6", Label: "Одиночество"},
			{Code: "Q4_OP7", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "Q5",
		Prompt: "Как давно это продолжается?",
		Kind:   Single,
		Options: []Option{
			{Code: "Q5_OP1", Label: "Недавно (менее месяца)"},
			{Code: "Q5_OP2", Label: "Несколько месяцев"},
			{Code: "Q5_OP3", Label: "Больше полугода"},
			{Code: "Q5_OP4", Label: "Больше года"},
			{Code: "Q5_OP5", Label: "Несколько лет"},
		},
		Required: true,
	},
	{
		Code:   "Q6",
		Prompt: "Рассказывал ли ты кому-нибудь об этом?",
		Kind:   Single,
		Options: []Option{
			{Code: "Q6_OP1", Label: "Да, близким"},
			{Code: "Q6_OP2", Label: "Да, специалистам"},
			{Code: "Q6_OP3", Label: "Рассказывал, не помогли"},
			{Code: "Q6_OP4", Label: "Нет, никому"},
			{Code: "Q6_OP5", Label: "Хочу, но не знаю кому"},
		},
		Required: false,
	},
}

var followupQuestions = []Question{
	{
		Code:   "LQ1",
		Prompt: "Как именно это происходит? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "LQ1_OP1", Label: "Насмешка над акцентом"},
			{Code: "LQ1_OP2", Label: "Передразнивание речи"},
			{Code: "LQ1_OP3", Label: "Требования говорить по-другому"},
			{Code: "LQ1_OP4", Label: "Игнорирование"},
			{Code: "LQ1_OP5", Label: "Комментарии в интернете"},
			{Code: "LQ1_OP6", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "LQ2",
		Prompt: "Есть ли прямые оскорбления?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ2_OP1", Label: "Да, часто"},
			{Code: "LQ2_OP2", Label: "Иногда"},
			{Code: "LQ2_OP3", Label: "Нет, скрытая агрессия"},
			{Code: "LQ2_OP4", Label: "Нет оскорблений"},
		},
		Required: true,
	},
	{
		Code:   "LQ3",
		Prompt: "Как часто это случается?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ3_OP1", Label: "Каждый день"},
			{Code: "LQ3_OP2", Label: "Несколько раз в неделю"},
			{Code: "LQ3_OP3", Label: "Несколько раз в месяц"},
			{Code: "LQ3_OP4", Label: "Редко"},
		},
		Required: true,
	},
	{
		Code:   "LQ4",
		Prompt: "Как ты обычно реагируешь?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ4_OP1", Label: "Игнорирую"},
			{Code: "LQ4_OP2", Label: "Отвечаю, защищаюсь"},
			{Code: "LQ4_OP3", Label: "Перехожу на другой язык"},
			{Code: "LQ4_OP4", Label: "Ухожу, избегаю"},
			{Code: "LQ4_OP5", Label: "Чувствую плохо, ничего не делаю"},
			{Code: "LQ4_OP6", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "LQ5",
		Prompt: "Где это чаще всего происходит? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "LQ5_OP1", Label: "В школе/учебном заведении"},
			{Code: "LQ5_OP2", Label: "В интернете"},
			{Code: "LQ5_OP3", Label: "В компании друзей"},
			{Code: "LQ5_OP4", Label: "В общественных местах"},
			{Code: "LQ5_OP5", Label: "Дома / в семье"},
			{Code: "LQ5_OP6", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "LQ6",
		Prompt: "С каким языком связан конфликт?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ6_OP1", Label: "Русский язык"},
			{Code: "LQ6_OP2", Label: "Украинский язык"},
			{Code: "LQ6_OP3", Label: "Английский язык"},
			{Code: "LQ6_OP4", Label: "Другой язык"},
			{Code: "LQ6_OP5", Label: "Не связано с языком"},
		},
		Required: true,
	},
	{
		Code:   "LQ7",
		Prompt: "Пробовал ли ты это остановить?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ7_OP1", Label: "Да, помогло"},
			{Code: "LQ7_OP2", Label: "Да, не помогло"},
			{Code: "LQ7_OP3", Label: "Да, стало хуже"},
			{Code: "LQ7_OP4", Label: "Нет, не знаю как"},
			{Code: "LQ7_OP5", Label: "Нет, боюсь"},
		},
		Required: true,
	},
	{
		Code:   "LQ8",
		Prompt: "Что задевает больше всего? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "LQ8_OP1", Label: "Критика речи"},
			{Code: "LQ8_OP2", Label: "Непринятие языка"},
			{Code: "LQ8_OP3", Label: "Унижение культуры"},
			{Code: "LQ8_OP4", Label: "Публичность"},
			{Code: "LQ8_OP5", Label: "Постоянство"},
			{Code: "LQ8_OP6", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:   "LQ9",
		Prompt: "Поддерживают ли тебя окружающие?",
		Kind:   Single,
		Options: []Option{
			{Code: "LQ9_OP1", Label: "Да, поддерживают"},
			{Code: "LQ9_OP2", Label: "Частично"},
			{Code: "LQ9_OP3", Label: "Нет, одиноко"},
			{Code: "LQ9_OP4", Label: "Не знают о ситуации"},
		},
		Required: true,
	},
	{
		Code:   "LQ10",
		Prompt: "Как это влияет на твою жизнь? Можно выбрать несколько вариантов.",
		Kind:   Multi,
		Options: []Option{
			{Code: "LQ10_OP1", Label: "Не хочу общаться"},
			{Code: "LQ10_OP2", Label: "Боюсь говорить на языке"},
			{Code: "LQ10_OP3", Label: "Ухудшилась учеба/работа"},
			{Code: "LQ10_OP4", Label: "Проблемы со сном/аппетитом"},
			{Code: "LQ10_OP5", Label: "Тревога и стресс"},
			{Code: "LQ10_OP6", Label: "Низкая самооценка"},
			{Code: "LQ10_OP7", Label: "Почти не влияет"},
			{Code: "LQ10_OP8", Label: "Другое", RequiresElaboration: true},
		},
		Required: true,
	},
	{
		Code:     "LQ11",
		Prompt:   "Что, по-твоему, могло бы помочь в такой ситуации? Напиши своими словами.",
		Kind:     Open,
		Required: false,
	},
}

// Display titles used by the detailed statistics report.
var questionTitles = map[string]string{
	"Q1":   "Проявления буллинга",
	"Q2":   "Причины буллинга",
	"Q3":   "Инициатор буллинга",
	"Q4":   "Эмоции из-за буллинга",
	"Q5":   "Длительность буллинга",
	"Q6":   "Рассказывали ли о буллинге",
	"LQ1":  "Как происходит буллинг",
	"LQ2":  "Прямые оскорбления",
	"LQ3":  "Частота буллинга",
	"LQ4":  "Реакция на буллинг",
	"LQ5":  "Обстоятельства буллинга",
	"LQ6":  "Язык конфликта",
	"LQ7":  "Попытки остановить буллинг",
	"LQ8":  "Что больше всего задевает",
	"LQ9":  "Поддержка окружающих",
	"LQ10": "Влияние на жизнь",
	"LQ11": "Что могло бы помочь",
}

// QuestionTitle returns the display title for a question code, falling back
// to the code itself.
func QuestionTitle(code string) string {
	if t, ok := questionTitles[code]; ok {
		return t
	}
	return code
}
