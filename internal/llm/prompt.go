package llm

import (
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// System prompts. Extraction prompts are in Chinese because the target
// corpus is Chinese clinical guidelines and the structured-output
// instructions were tuned against Chinese-language models.
const (
	SystemText   = "You are a medical document analysis assistant."
	SystemVision = "You are a medical document analysis assistant specialized in analyzing medical documents and images."
)

// pageTypeInstructions asks for a single classification token.
const pageTypeInstructions = `请判断这个PDF页面的类型。可能的类型包括：
1. 目录页 (table_of_contents) - 包含章节列表和页码
2. 参考文献页 (references) - 包含引用的文献列表
3. 内容页 (content) - 包含实际的医疗指南内容

请仅返回一个单词作为页面类型：table_of_contents、references 或 content`

// pageTypeTextLimit caps how much page text is sent for classification.
const pageTypeTextLimit = 1000

// evidenceSchema is the shared tail of both extraction prompts: the
// structured fields, the evidence level legend and the JSON contract.
const evidenceSchema = `如果是，请提取并输出如下结构化证据信息（未提及的字段请填 null）：
- 相关基因（symbol）及变异（alteration）
- 疾病的中文名和英文名
- 药物中文名和英文名，及药物组合（如果有）
- 证据等级（A/B/C/D）、响应性（敏感/耐药）、证据类型
    A1(FDA-approved therapies)
    A2(Professional guidelines)
    B(Well-powered studies with consensus)
    C1(Multiple small studies with some consensus)
    C2(inclusion criteria for CT)
    C3(A-evidence for a different Ca)
    D1(Cases)
    D2(Preclinical)

输出格式为 JSON，包含以下字段：
{
  "text": "原文提取的文本",
  "is_precision_evidence": true/false,
  "symbol": "基因符号",
  "alteration": "基因变异",
  "disease_name_cn": "疾病中文名",
  "disease_name_en": "疾病英文名",
  "drug_name_cn": "药物中文名",
  "drug_name_en": "药物英文名",
  "drug_combination": "药物组合",
  "evidence_level": "证据等级",
  "response_type": "敏感/耐药",
  "evidence_type": "证据类型"
}`

// PageTypePrompt builds the text-based page classification prompt.
func PageTypePrompt(text string) string {
	runes := []rune(text)
	if len(runes) > pageTypeTextLimit {
		text = string(runes[:pageTypeTextLimit]) + "..."
	}
	return pageTypeInstructions + "\n\n页面文本内容：\n" + text
}

// PageTypeImagePrompt is the classification prompt when the page is
// sent as an image.
func PageTypeImagePrompt() string {
	return pageTypeInstructions
}

// ExtractTextPrompt builds the evidence extraction prompt for extracted
// page text.
func ExtractTextPrompt(text string) string {
	return `请分析以下医疗文本，判断文字中是否能提供精准医疗相关的用药证据，即是否涉及某个基因或基因变异与特定肿瘤疾病在使用某种药物（或药物组合）后的疗效（敏感性/耐药性等）或疗效预测关系。

文本内容：
` + text + `

` + evidenceSchema + `

如果该文本内容不涉及基因变异与疾病的药物疗效关系，请只返回：{"is_precision_evidence": false}`
}

// ExtractImagePrompt builds the evidence extraction prompt for a page
// image. The model first transcribes the page, then extracts.
func ExtractImagePrompt() string {
	return `请先把该图片中的文字原文提取出来，判断文字中是否能提供精准医疗相关的用药证据，即是否涉及某个基因或基因变异与特定肿瘤疾病在使用某种药物（或药物组合）后的疗效（敏感性/耐药性等）或疗效预测关系。

` + evidenceSchema + `

如果该图片内容不涉及基因变异与疾病的药物疗效关系，请只返回：{"is_precision_evidence": false}`
}

// ParsePageType maps a free-form classification answer to a page type.
// Anything unrecognized counts as content so pages are never silently
// dropped on a sloppy answer.
func ParsePageType(answer string) model.PageType {
	s := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.Contains(s, "table_of_contents") || strings.Contains(s, "目录"):
		return model.PageTypeTableOfContents
	case strings.Contains(s, "references") || strings.Contains(s, "参考文献"):
		return model.PageTypeReferences
	default:
		return model.PageTypeContent
	}
}
