package regions

import "strings"

// County is one entry of the static NC county table. The FIPS code is
// the stable external identifier; the slug is the URL-safe key used
// for store lookups.
type County struct {
	FIPS string
	Name string
	Slug string
}

var NCCounties = []County{
	{FIPS: "37001", Name: "Alamance", Slug: "alamance"},
	{FIPS: "37003", Name: "Alexander", Slug: "alexander"},
	{FIPS: "37005", Name: "Alleghany", Slug: "alleghany"},
	{FIPS: "37007", Name: "Anson", Slug: "anson"},
	{FIPS: "37009", Name: "Ashe", Slug: "ashe"},
	{FIPS: "37011", Name: "Avery", Slug: "avery"},
	{FIPS: "37013", Name: "Beaufort", Slug: "beaufort"},
	{FIPS: "37015", Name: "Bertie", Slug: "bertie"},
	{FIPS: "37017", Name: "Bladen", Slug: "bladen"},
	{FIPS: "37019", Name: "Brunswick", Slug: "brunswick"},
	{FIPS: "37021", Name: "Buncombe", Slug: "buncombe"},
	{FIPS: "37023", Name: "Burke", Slug: "burke"},
	{FIPS: "37025", Name: "Cabarrus", Slug: "cabarrus"},
	{FIPS: "37027", Name: "Caldwell", Slug: "caldwell"},
	{FIPS: "37029", Name: "Camden", Slug: "camden"},
	{FIPS: "37031", Name: "Carteret", Slug: "carteret"},
	{FIPS: "37033", Name: "Caswell", Slug: "caswell"},
	{FIPS: "37035", Name: "Catawba", Slug: "catawba"},
	{FIPS: "37037", Name: "Chatham", Slug: "chatham"},
	{FIPS: "37039", Name: "Cherokee", Slug: "cherokee"},
	{FIPS: "37041", Name: "Chowan", Slug: "chowan"},
	{FIPS: "37043", Name: "Clay", Slug: "clay"},
	{FIPS: "37045", Name: "Cleveland", Slug: "cleveland"},
	{FIPS: "37047", Name: "Columbus", Slug: "columbus"},
	{FIPS: "37049", Name: "Craven", Slug: "craven"},
	{FIPS: "37051", Name: "Cumberland", Slug: "cumberland"},
	{FIPS: "37053", Name: "Currituck", Slug: "currituck"},
	{FIPS: "37055", Name: "Dare", Slug: "dare"},
	{FIPS: "37057", Name: "Davidson", Slug: "davidson"},
	{FIPS: "37059", Name: "Davie", Slug: "davie"},
	{FIPS: "37061", Name: "Duplin", Slug: "duplin"},
	{FIPS: "37063", Name: "Durham", Slug: "durham"},
	{FIPS: "37065", Name: "Edgecombe", Slug: "edgecombe"},
	{FIPS: "37067", Name: "Forsyth", Slug: "forsyth"},
	{FIPS: "37069", Name: "Franklin", Slug: "franklin"},
	{FIPS: "37071", Name: "Gaston", Slug: "gaston"},
	{FIPS: "37073", Name: "Gates", Slug: "gates"},
	{FIPS: "37075", Name: "Graham", Slug: "graham"},
	{FIPS: "37077", Name: "Granville", Slug: "granville"},
	{FIPS: "37079", Name: "Greene", Slug: "greene"},
	{FIPS: "37081", Name: "Guilford", Slug: "guilford"},
	{FIPS: "37083", Name: "Halifax", Slug: "halifax"},
	{FIPS: "37085", Name: "Harnett", Slug: "harnett"},
	{FIPS: "37087", Name: "Haywood", Slug: "haywood"},
	{FIPS: "37089", Name: "Henderson", Slug: "henderson"},
	{FIPS: "37091", Name: "Hertford", Slug: "hertford"},
	{FIPS: "37093", Name: "Hoke", Slug: "hoke"},
	{FIPS: "37095", Name: "Hyde", Slug: "hyde"},
	{FIPS: "37097", Name: "Iredell", Slug: "iredell"},
	{FIPS: "37099", Name: "Jackson", Slug: "jackson"},
	{FIPS: "37101", Name: "Johnston", Slug: "johnston"},
	{FIPS: "37103", Name: "Jones", Slug: "jones"},
	{FIPS: "37105", Name: "Lee", Slug: "lee"},
	{FIPS: "37107", Name: "Lenoir", Slug: "lenoir"},
	{FIPS: "37109", Name: "Lincoln", Slug: "lincoln"},
	{FIPS: "37111", Name: "McDowell", Slug: "mcdowell"},
	{FIPS: "37113", Name: "Macon", Slug: "macon"},
	{FIPS: "37115", Name: "Madison", Slug: "madison"},
	{FIPS: "37117", Name: "Martin", Slug: "martin"},
	{FIPS: "37119", Name: "Mecklenburg", Slug: "mecklenburg"},
	{FIPS: "37121", Name: "Mitchell", Slug: "mitchell"},
	{FIPS: "37123", Name: "Montgomery", Slug: "montgomery"},
	{FIPS: "37125", Name: "Moore", Slug: "moore"},
	{FIPS: "37127", Name: "Nash", Slug: "nash"},
	{FIPS: "37129", Name: "New Hanover", Slug: "new-hanover"},
	{FIPS: "37131", Name: "Northampton", Slug: "northampton"},
	{FIPS: "37133", Name: "Onslow", Slug: "onslow"},
	{FIPS: "37135", Name: "Orange", Slug: "orange"},
	{FIPS: "37137", Name: "Pamlico", Slug: "pamlico"},
	{FIPS: "37139", Name: "Pasquotank", Slug: "pasquotank"},
	{FIPS: "37141", Name: "Pender", Slug: "pender"},
	{FIPS: "37143", Name: "Perquimans", Slug: "perquimans"},
	{FIPS: "37145", Name: "Person", Slug: "person"},
	{FIPS: "37147", Name: "Pitt", Slug: "pitt"},
	{FIPS: "37149", Name: "Polk", Slug: "polk"},
	{FIPS: "37151", Name: "Randolph", Slug: "randolph"},
	{FIPS: "37153", Name: "Richmond", Slug: "richmond"},
	{FIPS: "37155", Name: "Robeson", Slug: "robeson"},
	{FIPS: "37157", Name: "Rockingham", Slug: "rockingham"},
	{FIPS: "37159", Name: "Rowan", Slug: "rowan"},
	{FIPS: "37161", Name: "Rutherford", Slug: "rutherford"},
	{FIPS: "37163", Name: "Sampson", Slug: "sampson"},
	{FIPS: "37165", Name: "Scotland", Slug: "scotland"},
	{FIPS: "37167", Name: "Stanly", Slug: "stanly"},
	{FIPS: "37169", Name: "Stokes", Slug: "stokes"},
	{FIPS: "37171", Name: "Surry", Slug: "surry"},
	{FIPS: "37173", Name: "Swain", Slug: "swain"},
	{FIPS: "37175", Name: "Transylvania", Slug: "transylvania"},
	{FIPS: "37177", Name: "Tyrrell", Slug: "tyrrell"},
	{FIPS: "37179", Name: "Union", Slug: "union"},
	{FIPS: "37181", Name: "Vance", Slug: "vance"},
	{FIPS: "37183", Name: "Wake", Slug: "wake"},
	{FIPS: "37185", Name: "Warren", Slug: "warren"},
	{FIPS: "37187", Name: "Washington", Slug: "washington"},
	{FIPS: "37189", Name: "Watauga", Slug: "watauga"},
	{FIPS: "37191", Name: "Wayne", Slug: "wayne"},
	{FIPS: "37193", Name: "Wilkes", Slug: "wilkes"},
	{FIPS: "37195", Name: "Wilson", Slug: "wilson"},
	{FIPS: "37197", Name: "Yadkin", Slug: "yadkin"},
	{FIPS: "37199", Name: "Yancey", Slug: "yancey"},
}

func ByName(name string) *County {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, " county")
	for i := range NCCounties {
		if strings.ToLower(NCCounties[i].Name) == n {
			return &NCCounties[i]
		}
	}
	return nil
}

func BySlug(slug string) *County {
	for i := range NCCounties {
		if NCCounties[i].Slug == slug {
			return &NCCounties[i]
		}
	}
	return nil
}

func ByFIPS(fips string) *County {
	for i := range NCCounties {
		if NCCounties[i].FIPS == fips {
			return &NCCounties[i]
		}
	}
	return nil
}
