package gen

// countryCurrency pairs an ISO-3166 alpha-3 country with its currency.
type countryCurrency struct {
	Country  string
	Currency string
}

// countryCurrencies is the draw table for merchant and issuer countries.
var countryCurrencies = []countryCurrency{
	{"USA", "USD"}, {"CAN", "CAD"}, {"GBR", "GBP"}, {"JPN", "JPY"},
	{"AUS", "AUD"}, {"CHE", "CHF"}, {"SWE", "SEK"}, {"NOR", "NOK"},
	{"DNK", "DKK"}, {"POL", "PLN"}, {"CZE", "CZK"}, {"HUN", "HUF"},
	{"BGR", "BGN"}, {"ROU", "RON"}, {"KOR", "KRW"}, {"MEX", "MXN"},
	{"BRA", "BRL"}, {"ARG", "ARS"}, {"CHL", "CLP"}, {"COL", "COP"},
	{"PER", "PEN"}, {"ARE", "AED"}, {"ZAF", "ZAR"}, {"SGP", "SGD"},
	{"DEU", "EUR"}, {"FRA", "EUR"}, {"ITA", "EUR"}, {"ESP", "EUR"},
	{"NLD", "EUR"}, {"BEL", "EUR"}, {"AUT", "EUR"}, {"IRL", "EUR"},
	{"PRT", "EUR"}, {"GRC", "EUR"}, {"FIN", "EUR"}, {"SVN", "EUR"},
	{"EST", "EUR"}, {"LVA", "EUR"}, {"LTU", "EUR"}, {"LUX", "EUR"},
}

// toUSD converts one unit of a currency into USD.
var toUSD = map[string]float64{
	"USD": 1.0, "EUR": 1.05, "GBP": 1.27, "JPY": 0.0067, "CAD": 0.72,
	"AUD": 0.65, "CHF": 1.13, "SEK": 0.096, "NOK": 0.091, "DKK": 0.14,
	"PLN": 0.25, "CZK": 0.042, "HUF": 0.0027, "BGN": 0.54, "RON": 0.21,
	"KRW": 0.00075, "MXN": 0.049, "BRL": 0.17, "ARS": 0.0010,
	"CLP": 0.0010, "COP": 0.00023, "PEN": 0.26, "AED": 0.27,
	"ZAR": 0.055, "SGD": 0.74,
}

// fromUSD converts one USD into units of a currency.
var fromUSD = map[string]float64{
	"USD": 1.0, "EUR": 0.95, "GBP": 0.79, "JPY": 149.5, "CAD": 1.39,
	"AUD": 1.54, "CHF": 0.88, "SEK": 10.4, "NOK": 11.0, "DKK": 7.1,
	"PLN": 4.0, "CZK": 23.8, "HUF": 370.0, "BGN": 1.86, "RON": 4.75,
	"KRW": 1330.0, "MXN": 20.4, "BRL": 5.8, "ARS": 1000.0, "CLP": 970.0,
	"COP": 4350.0, "PEN": 3.85, "AED": 3.67, "ZAR": 18.2, "SGD": 1.35,
}

// merchant is one entry of a country's merchant table.
type merchant struct {
	Name      string
	DBA       string
	LegalName string
	MCC       string
	Region    string
	MID       string
}

// merchantsByCountry holds curated merchant tables for the highest-volume
// countries. Countries without a table draw from genericMerchants.
var merchantsByCountry = map[string][]merchant{
	"USA": {
		{"Amazon", "Amazon.com", "Amazon.com Inc", "5999", "001", "MID001234567890"},
		{"Walmart", "Walmart", "Walmart Inc", "5411", "001", "MID002345678901"},
		{"Target", "Target", "Target Corporation", "5331", "001", "MID003456789012"},
		{"Costco", "Costco", "Costco Wholesale Corporation", "5300", "001", "MID004567890123"},
		{"Home Depot", "Home Depot", "The Home Depot Inc", "5211", "001", "MID005678901234"},
		{"Starbucks", "Starbucks", "Starbucks Corporation", "5814", "001", "MID006789012345"},
		{"McDonald's", "McDonald's", "McDonald's Corporation", "5814", "001", "MID007890123456"},
		{"Apple Store", "Apple Store", "Apple Inc", "5732", "001", "MID008901234567"},
		{"Best Buy", "Best Buy", "Best Buy Co Inc", "5732", "001", "MID009012345678"},
		{"Macy's", "Macy's", "Macy's Inc", "5311", "001", "MID010123456789"},
		{"CVS Pharmacy", "CVS", "CVS Health Corporation", "5912", "001", "MID011234567890"},
		{"Walgreens", "Walgreens", "Walgreens Boots Alliance", "5912", "001", "MID012345678901"},
		{"Nike", "Nike Store", "Nike Inc", "5655", "001", "MID013456789012"},
		{"Whole Foods", "Whole Foods Market", "Amazon.com Inc", "5411", "001", "MID015678901234"},
		{"Kroger", "Kroger", "The Kroger Co", "5411", "001", "MID016789012345"},
	},
	"CAN": {
		{"Tim Hortons", "Tim Hortons", "Tim Hortons Inc", "5814", "001", "MID026789012345"},
		{"Canadian Tire", "Canadian Tire", "Canadian Tire Corporation", "5531", "001", "MID027890123456"},
		{"Loblaws", "Loblaws", "Loblaw Companies Limited", "5411", "001", "MID028901234567"},
		{"Shoppers Drug Mart", "Shoppers", "Shoppers Drug Mart Corporation", "5912", "001", "MID029012345678"},
		{"Hudson's Bay", "The Bay", "Hudson's Bay Company", "5311", "001", "MID031234567890"},
		{"Sobeys", "Sobeys", "Empire Company Limited", "5411", "001", "MID032345678901"},
	},
	"GBR": {
		{"Tesco", "Tesco", "Tesco PLC", "5411", "002", "MID040123456789"},
		{"Sainsbury's", "Sainsbury's", "J Sainsbury plc", "5411", "002", "MID041234567890"},
		{"John Lewis", "John Lewis", "John Lewis Partnership", "5311", "002", "MID042345678901"},
		{"Marks & Spencer", "M&S", "Marks and Spencer Group plc", "5311", "002", "MID043456789012"},
		{"ASDA", "ASDA", "ASDA Group Limited", "5411", "002", "MID044567890123"},
		{"Boots", "Boots", "Walgreens Boots Alliance", "5912", "002", "MID045678901234"},
	},
	"FRA": {
		{"Carrefour", "Carrefour", "Carrefour SA", "5411", "002", "MID047890123456"},
		{"Leclerc", "Leclerc", "E.Leclerc", "5411", "002", "MID048901234567"},
		{"Galeries Lafayette", "Galeries Lafayette", "Groupe Galeries Lafayette", "5311", "002", "MID049012345678"},
		{"Auchan", "Auchan", "Groupe Auchan", "5411", "002", "MID050123456789"},
		{"Monoprix", "Monoprix", "Groupe Casino", "5411", "002", "MID051234567890"},
	},
	"DEU": {
		{"Aldi", "Aldi", "Aldi Einkauf GmbH", "5411", "002", "MID052345678901"},
		{"Lidl", "Lidl", "Lidl Stiftung & Co KG", "5411", "002", "MID053456789012"},
		{"MediaMarkt", "MediaMarkt", "MediaMarktSaturn Retail Group", "5732", "002", "MID054567890123"},
		{"Edeka", "Edeka", "Edeka Zentrale AG", "5411", "002", "MID055678901234"},
		{"Rewe", "Rewe", "Rewe Group", "5411", "002", "MID056789012345"},
	},
	"JPN": {
		{"7-Eleven", "7-Eleven", "Seven & i Holdings", "5411", "003", "MID060123456789"},
		{"Uniqlo", "Uniqlo", "Fast Retailing Co Ltd", "5651", "003", "MID061234567890"},
		{"Lawson", "Lawson", "Lawson Inc", "5411", "003", "MID062345678901"},
		{"FamilyMart", "FamilyMart", "FamilyMart Co Ltd", "5411", "003", "MID063456789012"},
	},
	"AUS": {
		{"Woolworths", "Woolworths", "Woolworths Group Limited", "5411", "003", "MID064567890123"},
		{"Coles", "Coles", "Coles Group Limited", "5411", "003", "MID065678901234"},
		{"JB Hi-Fi", "JB Hi-Fi", "JB Hi-Fi Limited", "5732", "003", "MID066789012345"},
	},
}

// genericMerchants covers countries without a curated table.
var genericMerchants = []merchant{
	{"City Market", "City Market", "City Market Group", "5411", "002", "MID090123456789"},
	{"Metro Retail", "Metro Retail", "Metro Retail Holdings", "5311", "002", "MID091234567890"},
	{"Express Cafe", "Express Cafe", "Express Cafe International", "5814", "002", "MID092345678901"},
	{"Central Pharmacy", "Central Pharmacy", "Central Pharmacy Group", "5912", "002", "MID093456789012"},
	{"Tech World", "Tech World", "Tech World Distribution", "5732", "002", "MID094567890123"},
}

// citiesByCountry backs billing and shipping city draws.
var citiesByCountry = map[string][]string{
	"USA": {"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"},
	"CAN": {"Toronto", "Vancouver", "Montreal", "Calgary", "Ottawa"},
	"GBR": {"London", "Manchester", "Birmingham", "Liverpool", "Leeds"},
	"DEU": {"Berlin", "Munich", "Hamburg", "Cologne", "Frankfurt"},
	"FRA": {"Paris", "Lyon", "Marseille", "Toulouse", "Nice"},
	"AUS": {"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide"},
	"JPN": {"Tokyo", "Osaka", "Kyoto", "Yokohama", "Nagoya"},
	"ITA": {"Rome", "Milan", "Naples", "Turin", "Florence"},
	"ESP": {"Madrid", "Barcelona", "Valencia", "Seville", "Bilbao"},
	"NLD": {"Amsterdam", "Rotterdam", "The Hague", "Utrecht", "Eindhoven"},
	"BEL": {"Brussels", "Antwerp", "Ghent", "Charleroi", "Liege"},
	"CHE": {"Zurich", "Geneva", "Basel", "Bern", "Lausanne"},
	"SWE": {"Stockholm", "Gothenburg", "Malmo", "Uppsala", "Vasteras"},
	"NOR": {"Oslo", "Bergen", "Trondheim", "Stavanger", "Drammen"},
	"DNK": {"Copenhagen", "Aarhus", "Odense", "Aalborg", "Esbjerg"},
	"FIN": {"Helsinki", "Espoo", "Tampere", "Vantaa", "Turku"},
	"IRL": {"Dublin", "Cork", "Limerick", "Galway", "Waterford"},
	"PRT": {"Lisbon", "Porto", "Vila Nova de Gaia", "Amadora", "Braga"},
	"GRC": {"Athens", "Thessaloniki", "Patras", "Heraklion", "Larissa"},
	"POL": {"Warsaw", "Krakow", "Lodz", "Wroclaw", "Poznan"},
	"CZE": {"Prague", "Brno", "Ostrava", "Plzen", "Liberec"},
}

var genericCities = []string{"Riverside", "Lakeview", "Hillcrest", "Brookfield", "Fairview"}

// merchantsFor returns the merchant table for a country.
func merchantsFor(country string) []merchant {
	if m, ok := merchantsByCountry[country]; ok {
		return m
	}
	return genericMerchants
}

// citiesFor returns the city table for a country.
func citiesFor(country string) []string {
	if c, ok := citiesByCountry[country]; ok {
		return c
	}
	return genericCities
}

// chargebackReasonCodes maps a network brand to its dispute reason codes.
var chargebackReasonCodes = map[string][]string{
	"MASTERCARD": {"4855", "4834", "4837", "4863", "4871"},
	"VISA":       {"10.4", "11.1", "12.1", "13.1", "13.2"},
	"AMEX":       {"C02", "C08", "C14", "C18", "C28"},
	"DISCOVER":   {"4554", "4553", "4552", "4550", "4541"},
}

// productWeight pairs an issuer product code with its draw weight.
// Weights are relative, not percentages.
type productWeight struct {
	Code   string
	Weight int
}

// cardProducts maps a card brand to its weighted issuer product codes.
// Flagship consumer products dominate each portfolio; niche co-brands
// and legacy codes trail off.
var cardProducts = map[string][]productWeight{
	"VISA": {
		{"CSP", 18}, {"CSR", 14}, {"CFU", 12}, {"CFF", 10},
		{"IHG", 6}, {"UAX", 6}, {"CCR", 6}, {"TRV", 5},
		{"PRM", 5}, {"MLB", 4}, {"ACT", 3}, {"AUT", 3},
		{"REF", 3}, {"VTX", 2}, {"VT1", 2}, {"QS1", 2}, {"SAV", 2},
	},
	"MASTERCARD": {
		{"CFX", 16}, {"WOH", 14}, {"BUS", 12}, {"CUS", 10},
		{"SEC", 8}, {"BIZ", 8}, {"BZP", 7}, {"SIG", 7},
		{"PLT", 6}, {"SPK", 5}, {"QSL", 4}, {"VEN", 3},
	},
	"AMEX": {
		{"PLT", 22}, {"GLD", 20}, {"GRN", 16}, {"BBP", 12},
		{"SPG", 10}, {"HLT", 8}, {"DLT", 7}, {"BCP", 5},
	},
	"DISCOVER": {
		{"IT1", 30}, {"IT2", 20}, {"CSH", 18},
		{"STU", 14}, {"SEC", 10}, {"CHR", 8},
	},
}

// reasonCodesFor returns dispute reason codes for a brand, defaulting to
// the Mastercard set for unknown brands.
func reasonCodesFor(brand string) []string {
	if codes, ok := chargebackReasonCodes[brand]; ok {
		return codes
	}
	return chargebackReasonCodes["MASTERCARD"]
}

// productsFor returns the weighted product codes for a brand.
func productsFor(brand string) []productWeight {
	if products, ok := cardProducts[brand]; ok {
		return products
	}
	return []productWeight{{"PLT", 4}, {"SIL", 3}, {"BRZ", 2}, {"DMN", 1}}
}

// declineCodes are auth response codes drawn for declined transactions.
var declineCodes = []string{
	"51", "61", "05", "79", "82", "83", "04", "14", "33", "41", "43", "54",
	"01", "03", "13", "15", "17", "38", "57", "58", "62", "64", "65", "75",
	"81", "R0", "R1", "R3", "34", "36", "37", "55", "63", "66", "67", "70",
}

// declineReasons maps a transaction type to its decline reason pool.
func declineReasons(txnType string) []string {
	switch txnType {
	case "CASH_ADVANCE":
		return []string{"CASH_ADVANCE_NOT_ALLOWED", "EXCEEDS_CASH_LIMIT", "INSUFFICIENT_FUNDS"}
	case "BALANCE_TRANSFER":
		return []string{"BALANCE_TRANSFER_NOT_ALLOWED", "EXCEEDS_CREDIT_LIMIT"}
	default:
		return []string{
			"INSUFFICIENT_FUNDS", "EXPIRED_CARD", "INVALID_CVV", "SUSPECTED_FRAUD",
			"CARD_BLOCKED", "EXCEEDS_LIMIT", "INVALID_PIN", "CARD_NOT_ACTIVATED",
		}
	}
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
	"Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
}
