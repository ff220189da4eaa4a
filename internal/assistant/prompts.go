package assistant

import "fmt"

// buildPlanPrompt is the instruction block sent ahead of the user's message.
// The model must answer with one strict JSON object so DecodePlan can parse
// it without heuristics.
func buildPlanPrompt(timezone, currency string) string {
	return "You are the assistant behind a personal finance, task and workout tracker.\n\n" +
		"Task:\n" +
		"- Read the user's message (text, and possibly attached photos such as receipts).\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output one JSON object with exactly two top-level fields: \"actions\" and \"reply\".\n\n" +
		"\"actions\" is an array of objects. Each object has a \"type\" field, one of:\n" +
		"- \"add_transaction\": fields \"amount\" (number), \"currency\" (string), \"category\" (string), \"description\" (string), \"occurredAt\" (ISO 8601 string)\n" +
		"- \"add_income\": same fields as add_transaction, plus optional \"source\" (string)\n" +
		"- \"add_task\": fields \"title\" (string), \"dueDate\" (ISO 8601 string), optional \"startDate\", optional \"priority\" (low|medium|high)\n" +
		"- \"log_workout\": fields \"sport\" (string), \"durationMin\" (number), \"intensity\" (string), \"occurredAt\", \"notes\"\n" +
		"- \"suggest_weekly\": no fields\n" +
		"- \"none\": no fields\n\n" +
		"\"reply\" is a short confirmation or answer in the user's language.\n\n" +
		"Rules:\n" +
		fmt.Sprintf("- Resolve relative dates (\"tomorrow\", \"at 9pm\") against the user's timezone: %s.\n", timezone) +
		fmt.Sprintf("- Use the user's default currency %s unless the text names another one.\n", currency) +
		"- Interpret shorthand amounts: \"25k\" means 25000.\n" +
		"- If a required field is missing or ambiguous, emit ZERO actions and ask a clarifying question in \"reply\". Never guess amounts.\n" +
		"- Return ONLY valid raw JSON.\n" +
		"- Do NOT wrap the response in code fences.\n" +
		"- Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}

const transcribePrompt = "Transcribe this voice message verbatim. " +
	"Return only the transcribed text, with no quotes, labels or commentary. " +
	"Keep the original language."
