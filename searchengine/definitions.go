package searchengine

// Definition describes one search engine in the reference table: its canonical
// name, known aliases seen in referral sources, and the hosts its result pages
// are served from.
type Definition struct {
	Name    string
	Aliases []string
	Hosts   []string
}

// defaultDefinitions is the built-in reference table. Hosts are matched by
// suffix, so "google.com" also covers "www.google.com".
var defaultDefinitions = []Definition{
	{
		Name:    "Google",
		Aliases: []string{"google search"},
		Hosts:   []string{"google.com", "google.co.in", "google.co.uk", "google.de", "google.fr", "google.com.br"},
	},
	{
		Name:    "Bing",
		Aliases: []string{"msn search"},
		Hosts:   []string{"bing.com", "cn.bing.com"},
	},
	{
		Name:    "Yahoo!",
		Aliases: []string{"yahoo search"},
		Hosts:   []string{"search.yahoo.com", "yahoo.com"},
	},
	{
		Name:  "DuckDuckGo",
		Hosts: []string{"duckduckgo.com"},
	},
	{
		Name:  "Baidu",
		Hosts: []string{"baidu.com"},
	},
	{
		Name:  "Yandex",
		Hosts: []string{"yandex.ru", "yandex.com"},
	},
	{
		Name:  "Ask",
		Hosts: []string{"ask.com", "search.ask.com"},
	},
	{
		Name:  "Ecosia",
		Hosts: []string{"ecosia.org"},
	},
	{
		Name:  "AOL",
		Hosts: []string{"search.aol.com", "aol.com"},
	},
	{
		Name:  "Naver",
		Hosts: []string{"search.naver.com"},
	},
	{
		Name:  "Seznam",
		Hosts: []string{"search.seznam.cz"},
	},
	{
		Name:  "Qwant",
		Hosts: []string{"qwant.com"},
	},
}

// GetDefinitions returns the reference definitions table.
func GetDefinitions() []Definition {
	return defaultDefinitions
}
