package models

type QuickLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type SiteSettings struct {
	BannerText string      `json:"bannerText"`
	QuickLinks []QuickLink `json:"quickLinks"`
}

// UpdateSettingsRequest applies only the fields that are present.
type UpdateSettingsRequest struct {
	BannerText *string      `json:"bannerText"`
	QuickLinks *[]QuickLink `json:"quickLinks"`
}
