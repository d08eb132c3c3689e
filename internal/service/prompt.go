package service

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are a legal safety assistant. Read the following Terms and Conditions / Privacy Policy text and respond in this exact structure:

Safety Score: <number>/100
(0 = very risky, 100 = very safe; put the score on its own line)

Summary:
A short, neutral summary in simple, human-understandable language.

Risky clauses:
A bulleted list containing ONLY clauses that are risky or concerning for the user (e.g. data sharing, third parties, hidden fees, no refunds, arbitration, automatic renewal, unilateral changes). Write "- None found" if there are none.
%s
Terms & Conditions:
%s
`

// BuildPrompt 将条款文本原样嵌入固定的指令模板
// text 应已截断；language 为空时不附加语言说明
func BuildPrompt(text, language string) string {
	var note string
	if language != "" && language != "English" {
		note = fmt.Sprintf("\nThe document is written in %s. Write your answer in English.\n", language)
	}
	return fmt.Sprintf(promptTemplate, note, strings.TrimSpace(text))
}
