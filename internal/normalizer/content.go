package normalizer

// Content — нормализованный результат генерации. Конкретная форма зависит
// от инструмента, но после Extract все обязательные поля заполнены:
// вызывающему коду не приходится обрабатывать частично собранный объект.
type Content interface {
	isContent()
}

// BlogContent — статья для блога.
type BlogContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	IsHTML  bool   `json:"isHtml"`
}

// Captions — подписи по платформам, ключи из фиксированного набора платформ.
type Captions map[string]string

// CampaignEmail — одно письмо email-кампании.
type CampaignEmail struct {
	Day          int    `json:"day"`
	SubjectLine  string `json:"subjectLine"`
	Preheader    string `json:"preheader"`
	Body         string `json:"body"`
	CallToAction string `json:"callToAction"`
}

// EmailCampaign — последовательность писем и стратегия кампании.
type EmailCampaign struct {
	Campaign []CampaignEmail `json:"campaign"`
	Strategy string          `json:"strategy"`
}

// KeyFeature — особенность товара с выгодой для покупателя.
type KeyFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProductDescription — структурированное описание товара.
type ProductDescription struct {
	Headline         string       `json:"headline"`
	Tagline          string       `json:"tagline"`
	ShortDescription string       `json:"shortDescription"`
	FullDescription  string       `json:"fullDescription"`
	KeyFeatures      []KeyFeature `json:"keyFeatures"`
	Benefits         []string     `json:"benefits"`
	TargetAudience   string       `json:"targetAudience"`
	CallToAction     string       `json:"callToAction"`
	SEOKeywords      []string     `json:"seoKeywords"`
}

// RawContent — запасной вариант: ответ upstream не распознан ни одним
// правилом и возвращается пользователю как неструктурированный текст.
type RawContent struct {
	Content string `json:"content"`
	IsHTML  bool   `json:"isHtml"`
}

func (BlogContent) isContent()        {}
func (Captions) isContent()           {}
func (EmailCampaign) isContent()      {}
func (ProductDescription) isContent() {}
func (RawContent) isContent()         {}
