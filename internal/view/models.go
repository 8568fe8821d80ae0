package view

import (
	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/services"
)

// HomeData lists the chart types on the landing page.
type HomeData struct {
	Types []services.TypeOverview
}

// InputForm echoes a submitted birth form. Values stay as typed so a failed
// submission re-renders exactly what the visitor entered.
type InputForm struct {
	Year   string
	Month  string
	Day    string
	Hour   string
	Gender string
	// Errors holds i18n keys.
	Errors []string
}

// BlogData is the post index of one locale.
type BlogData struct {
	Posts []content.Page
}
