package source

// Table names without the installation prefix.
const (
	TableResources      = "site_content"
	TableClientConfig   = "clientconfig_setting"
	TableRedirects      = "redirects"
	TableSystemSettings = "system_settings"
)

// DefaultPrefix is the table prefix of a stock installation.
const DefaultPrefix = "modx_"

// Column positions of the resources table (44 columns).
const (
	colResID          = 0
	colResType        = 1
	colResContentType = 2
	colResPageTitle   = 3
	colResLongTitle   = 4
	colResDescription = 5
	colResAlias       = 6
	colResPublished   = 9
	colResParent      = 12
	colResIsFolder    = 13
	colResIntroText   = 14
	colResContent     = 15
	colResTemplate    = 17
	colResMenuIndex   = 18
	colResDeleted     = 25
	colResMenuTitle   = 30
	colResHideMenu    = 35
	colResClassKey    = 36
	colResContext     = 37
	colResURI         = 39
	colResProperties  = 43

	ResourceColumns = 44
)

// Column positions of the client-config settings table (13 columns).
const (
	colSetKey     = 1
	colSetLabel   = 2
	colSetXType   = 3
	colSetValue   = 7
	colSetDefault = 8
	colSetGroup   = 9

	SettingColumns = 13
)

// Column positions of the redirects table (8 columns).
const (
	colRedID      = 0
	colRedPattern = 1
	colRedTarget  = 2
	colRedContext = 3
	colRedActive  = 7

	RedirectColumns = 8
)

// Column positions of the system settings table (6 columns).
const (
	colSysKey   = 0
	colSysValue = 1

	SystemSettingColumns = 6
)
