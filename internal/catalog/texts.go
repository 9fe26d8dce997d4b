package catalog

// Conversation texts outside the question content.
const (
	WelcomeMessage = "Привет! Этот бот помогает разобраться с буллингом, связанным с речью и языком. " +
		"Опрос анонимный и займёт несколько минут. Согласен ли ты участвовать?"

	ConsentDeclinedMessage = "Хорошо, участие полностью добровольно. " +
		"Если передумаешь, просто начни сначала."

	RestartDoneMessage = "Опрос начат заново. Прежние ответы сохранены в архиве."

	RestartHintMessage = "Активный опрос не найден. Начни сначала, пожалуйста."

	ElaborationPromptMessage = "Расскажи, пожалуйста, подробнее - напиши ответ своими словами."

	SkipNotAllowedMessage = "Этот вопрос обязательный, его нельзя пропустить."

	QuestionUnavailableMessage = "Не получилось найти этот вопрос. Попробуй начать опрос заново."
)
