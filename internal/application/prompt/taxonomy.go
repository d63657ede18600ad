// Package prompt 提供业务属性到生成提示词的编译
package prompt

// 风格标签 -> 描述片段
var styleDescriptions = map[string]string{
	"modern":     "clean lines with a contemporary feel",
	"minimalist": "minimalist with generous negative space",
	"vintage":    "vintage character with handcrafted warmth",
	"playful":    "playful and approachable with rounded forms",
	"elegant":    "elegant and refined with balanced proportions",
	"bold":       "bold and high-contrast with strong shapes",
	"geometric":  "geometric construction with precise symmetry",
	"organic":    "organic flowing curves inspired by nature",
	"luxury":     "luxurious with premium understated detail",
	"tech":       "futuristic with a technical edge",
}

// 行业 -> 描述片段。technology 不入表，走兜底描述。
var industryDescriptions = map[string]string{
	"food":        "food and hospitality with appetizing warmth",
	"finance":     "finance conveying stability and trust",
	"health":      "health and wellness with a calm caring tone",
	"education":   "education and learning with clarity",
	"retail":      "retail and commerce with broad appeal",
	"real_estate": "real estate conveying solidity and home",
	"creative":    "creative services with expressive energy",
	"fitness":     "fitness and sport with dynamic motion",
	"legal":       "legal services with authority and balance",
}

// 颜色标签 -> 描述片段
var colorDescriptions = map[string]string{
	"blue":   "trustworthy blue tones",
	"red":    "energetic red accents",
	"green":  "natural fresh greens",
	"yellow": "optimistic warm yellows",
	"orange": "friendly vibrant orange",
	"purple": "creative deep purples",
	"black":  "strong black with high contrast",
	"white":  "airy white with subtle tints",
	"gold":   "premium gold highlights",
	"teal":   "modern balanced teal",
}

// 业务类型 -> 需求子句
var businessTypeClauses = map[string]string{
	"startup":        "convey momentum and a forward-looking identity",
	"enterprise":     "convey established scale and reliability",
	"local_business": "convey community warmth and approachability",
	"online_service": "work at small favicon sizes and in app icons",
	"social_media":   "read instantly in a wide banner crop",
}

// 变体生成的轮换强调修饰词
var variationModifiers = []string{
	"negative space",
	"symmetry",
	"a single strong focal shape",
	"layered depth",
	"fine line work",
	"a contained badge silhouette",
}

// 兜底描述，缺省时使用
const (
	defaultStyleDescription    = "modern and professional"
	defaultIndustryDescription = "professional and modern"
	defaultColorDescription    = "professional color palette"
	defaultAudience            = "general consumers"
)

// 固定负向提示词
const negativePrompt = "blurry, low quality, pixelated, distorted, rendered text, letters, " +
	"words, cluttered composition, photorealistic, photograph, human faces, excessive detail"
