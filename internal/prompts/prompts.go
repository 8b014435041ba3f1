package prompts

import (
	"strings"

	"paperlens/internal/util"
)

// TruncationNote is appended when paper content is cut at the length limit.
const TruncationNote = "\n\n[Note: Paper truncated due to length limitations]"

// IsEnhanced reports whether a prompt version selects the enhanced schema
// that also requires research_significance.
func IsEnhanced(version string) bool {
	return strings.HasSuffix(version, "_2_0")
}

// TruncateContent cuts content to at most maxLen characters, marking the cut.
// The limit counts runes, not bytes, so CJK papers keep their full budget and
// the cut never lands mid-character.
func TruncateContent(content string, maxLen int) string {
	if maxLen <= 0 {
		return content
	}
	cut := util.TruncateRunes(content, maxLen)
	if len(cut) == len(content) {
		return content
	}
	return cut + TruncationNote
}

// AnalysisPrompt renders the analysis prompt for the given version, filling
// in the paper text. Unknown versions fall back to EN_2_0.
func AnalysisPrompt(version, paperText string) string {
	tpl, ok := templates[version]
	if !ok {
		tpl = templates["EN_2_0"]
	}
	return strings.Replace(tpl, "{paper_text}", paperText, 1)
}

// SupportedVersions lists the prompt versions this build ships.
func SupportedVersions() []string {
	return []string{"EN", "EN_2_0", "ZH", "ZH_2_0"}
}

var templates = map[string]string{
	"EN": `Please analyze the following academic paper:

{paper_text}

You must provide meaningful analysis for ALL required fields:
- title: Paper title or descriptive title based on content
- summary: Comprehensive summary of the paper
- problem: Research problem or challenge addressed
- solution: Proposed solution or methodology
- limitations: Limitations or weaknesses
- key_contributions: Main contributions

Never leave any field empty or use "Not provided". Always provide meaningful analysis.

Return your analysis as a valid JSON object.`,

	"EN_2_0": `Please conduct a deep analysis of the following academic paper:

{paper_text}

CRITICAL REQUIREMENTS:
- You MUST provide detailed analysis for ALL required fields
- Never leave any field empty or use "Not provided" - this is unacceptable
- When explicit information is not available, make reasonable inferences based on the paper content
- Be proactive in identifying implicit contributions and limitations
- Focus on specific technical details rather than generic statements

Required fields:
- title: Paper title (create descriptive title if not provided)
- summary: Comprehensive summary synthesizing from all sections
- problem: Specific research problem or challenge
- solution: Detailed methodology or approach
- limitations: Technical limitations and potential improvements
- key_contributions: Main innovations and contributions
- research_significance: Impact and significance of the work

Return your analysis as a valid JSON object with all required fields.`,

	"ZH": `请分析以下学术论文：

{paper_text}

您必须为所有必需字段提供有意义的分析：
- title: 论文标题
- summary: 论文内容总结
- problem: 研究问题
- solution: 解决方案
- limitations: 局限性
- key_contributions: 主要贡献

严禁留空任何字段或使用"Not provided"。请使用analyze_paper函数提供您的完整分析。`,

	"ZH_2_0": `请对以下学术论文进行深度分析：

{paper_text}

关键分析要求：
- 您必须为所有必需字段提供详细分析
- 严禁留空任何字段或使用"Not provided" - 这是不可接受的
- 当论文中没有直接明确的信息时，请基于内容进行合理推断
- 主动识别隐含的贡献和局限性
- 提供具体的技术细节，避免泛泛而谈

必需字段：
- title: 论文标题（如未提供请创建描述性标题）
- summary: 全面总结论文内容
- problem: 具体研究问题或挑战
- solution: 详细方法论或方法
- limitations: 技术局限性和潜在改进
- key_contributions: 主要创新和贡献
- research_significance: 工作的影响和意义

请使用analyze_paper函数提供您的全面分析，确保所有字段都完成了有意义的内容。`,
}
