package layout

import "strconv"

// LayoutKind is the numeric layout id of the legacy page builder.
type LayoutKind int

const (
	LayoutOneColumn LayoutKind = iota + 1
	LayoutTwoColumn
	LayoutThreeColumn
	LayoutHero
	LayoutFourColumn
	LayoutSidebarLeft
	LayoutSidebarRight
	LayoutFullWidth
	LayoutCallToAction
	LayoutTwoColumn6040
	LayoutTwoColumn4060
	LayoutBoxed
	LayoutCards
	LayoutContact
	LayoutGallery
	LayoutFeatures
	LayoutWrapper
)

var layoutNames = map[LayoutKind]string{
	LayoutOneColumn:     "one-column",
	LayoutTwoColumn:     "two-column",
	LayoutThreeColumn:   "three-column",
	LayoutHero:          "hero",
	LayoutFourColumn:    "four-column",
	LayoutSidebarLeft:   "sidebar-left",
	LayoutSidebarRight:  "sidebar-right",
	LayoutFullWidth:     "full-width",
	LayoutCallToAction:  "call-to-action",
	LayoutTwoColumn6040: "two-column-60-40",
	LayoutTwoColumn4060: "two-column-40-60",
	LayoutBoxed:         "boxed",
	LayoutCards:         "cards",
	LayoutContact:       "contact",
	LayoutGallery:       "gallery",
	LayoutFeatures:      "features",
	LayoutWrapper:       "wrapper",
}

func (k LayoutKind) String() string {
	if n, ok := layoutNames[k]; ok {
		return n
	}
	return "layout-" + strconv.Itoa(int(k))
}

// FieldKind is the numeric field id of the legacy page builder.
type FieldKind int

const (
	FieldHeading FieldKind = iota + 1
	FieldRichText
	FieldImage
	FieldGallery
	FieldSlider
	FieldAccordion
	FieldButtonList
	FieldVideo
	FieldIframe
	FieldCode
	FieldRawHTML
	FieldSpacer
	FieldDivider
	FieldForm
	FieldFeatureList
	FieldFAQ
	FieldExpertCard
	FieldExpertCardCompact
	FieldTextarea
	FieldButton
	FieldFileDownload
	FieldMap
	FieldTitleText
	FieldLinkList
	FieldTable
)

var fieldNames = map[FieldKind]string{
	FieldHeading:           "heading",
	FieldRichText:          "richtext",
	FieldImage:             "image",
	FieldGallery:           "gallery",
	FieldSlider:            "slider",
	FieldAccordion:         "accordion",
	FieldButtonList:        "button-list",
	FieldVideo:             "video",
	FieldIframe:            "iframe",
	FieldCode:              "code",
	FieldRawHTML:           "raw-html",
	FieldSpacer:            "spacer",
	FieldDivider:           "divider",
	FieldForm:              "form",
	FieldFeatureList:       "feature-list",
	FieldFAQ:               "faq",
	FieldExpertCard:        "expert-card",
	FieldExpertCardCompact: "expert-card-compact",
	FieldTextarea:          "textarea",
	FieldButton:            "button",
	FieldFileDownload:      "file-download",
	FieldMap:               "map",
	FieldTitleText:         "title-text",
	FieldLinkList:          "link-list",
	FieldTable:             "table",
}

func (k FieldKind) String() string {
	if n, ok := fieldNames[k]; ok {
		return n
	}
	return "field-" + strconv.Itoa(int(k))
}
