package analyzer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
)

const (
	LocaleEN = "en"
	LocaleZH = "zh"
)

type promptLocale struct {
	missing         string
	competitorLabel string
	tmpl            *template.Template
}

var locales = map[string]promptLocale{
	LocaleEN: {
		missing:         "Not provided",
		competitorLabel: "[Competitor %d]",
		tmpl:            template.Must(template.New("en").Parse(promptEN)),
	},
	LocaleZH: {
		missing:         "未提供",
		competitorLabel: "[竞对 %d]",
		tmpl:            template.Must(template.New("zh").Parse(promptZH)),
	},
}

type promptData struct {
	ABA         string
	Competitors string
	Reviews     string
	Name        string
	Desc        string
}

// BuildPrompt renders the instruction block for input. Unknown locales fall
// back to English.
func BuildPrompt(input *models.ListingInputData, locale string) string {
	loc, ok := locales[locale]
	if !ok {
		loc = locales[LocaleEN]
	}

	aba := input.ABAFileContent
	if strings.TrimSpace(aba) == "" {
		aba = loc.missing
	}

	lines := make([]string, 0, len(input.Competitors))
	for i, c := range input.Competitors {
		lines = append(lines, fmt.Sprintf(loc.competitorLabel, i+1)+": "+c.Bullets)
	}

	var b strings.Builder
	err := loc.tmpl.Execute(&b, promptData{
		ABA:         aba,
		Competitors: strings.Join(lines, "\n"),
		Reviews:     input.ReviewFileContent,
		Name:        input.ProductName,
		Desc:        input.ProductDesc,
	})
	if err != nil {
		panic(fmt.Sprintf("render %s prompt: %v", loc.tmpl.Name(), err))
	}
	return b.String()
}

const promptEN = `You are a senior Amazon operations expert with 10 years of experience in SEO, data mining and consumer psychology.

[Raw data to analyze]
1. ABA search term report: {{.ABA}}
2. Competitor listing copy (title and bullet points):
{{.Competitors}}
3. Raw review / VOC feedback: {{.Reviews}}
4. Our product: name: {{.Name}}, description: {{.Desc}}

[Analysis tasks]
A. ABA keyword analysis:
   - Perform root decomposition and find the core functional nouns.
   - Count high-frequency words to identify the main traffic drivers.
   - Select highly relevant keywords for the SEO title layout.

B. Competitor strategy breakdown:
   - Analyze the order of their selling points and how core keywords are embedded.
   - Extract their core selling points.

C. VOC pain point detection (critical):
   - Find the quality flaws, design defects or experience gaps competitors are most criticized for.
   - Label these defects explicitly.
   - In the generated listing copy, stress how our product's design fixes these competitor defects.

[Output requirements]
- Return pure JSON only.
- Produce 2 listing versions, each with a title, 5 bullet points and a product description:
  - Version 1 (SEO oriented): packed with high-weight keyword roots, suited to ranking a new product.
  - Version 2 (high conversion): focused on resolving VOC pain points, with highly persuasive copy.
`

const promptZH = `你是一名拥有10年经验的专业亚马逊高级运营专家，精通 SEO、数据挖掘和消费者心理学。

【待分析原始数据】
1. ABA 搜索词报告数据: {{.ABA}}
2. 竞对链接文案 (标题与五点):
{{.Competitors}}
3. Review/VOC 原始反馈: {{.Reviews}}
4. 我方产品信息: 品名: {{.Name}}, 描述: {{.Desc}}

【分析任务】
A. ABA 词库深度分析：
   - 执行词根拆解 (Root Decomposition)，找出最核心的功能名词。
   - 进行高频词统计，识别流量支柱。
   - 筛选出高相关性关键词，用于后续 SEO 标题布局。

B. 竞对策略解构：
   - 分析其文案卖点排列顺序及核心关键词埋词方式。
   - 提取其核心卖点。

C. VOC 痛点探测（关键）：
   - 找出竞对产品被抱怨最多的“质量缺点”、“设计缺陷”或“体验不足”。
   - 明确标注这些缺点。
   - 在生成的 Listing 文案中，强调我方产品通过何种设计改进了这些竞对缺陷（差异化打击）。

【输出要求】
- 必须返回纯 JSON 格式。
- 输出 2 个版本的 Listing：
  - Version 1 (SEO 导向型)：堆满高权重词根，适合新品冲排名。
  - Version 2 (高转化型)：侧重解决 VOC 痛点，文案极具说服力。
`
