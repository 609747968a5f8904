package tools

import (
	"context"
	"os/exec"
	"sort"
	"sync"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Category is one named group of the tool catalogue.
type Category struct {
	Name  string
	Tools []string
}

// Catalogue is the fixed list of Kali tool categories, in display order.
var Catalogue = []Category{
	{Name: "information_gathering", Tools: []string{
		"nmap", "masscan", "zmap", "dnsrecon", "dnsenum", "dnsmap", "dnswalk",
		"fierce", "maltego", "recon-ng", "theharvester", "whatweb", "wafw00f",
		"nikto", "wapiti", "wpscan", "joomscan", "drupwn", "cmsmap",
	}},
	{Name: "vulnerability_analysis", Tools: []string{
		"nmap", "openvas", "lynis", "nikto", "skipfish", "w3af", "wapiti",
		"sqlninja", "sqlmap", "commix", "davtest", "deblaze",
	}},
	{Name: "web_application_analysis", Tools: []string{
		"burpsuite", "owasp-zap", "nikto", "wapiti", "w3af", "sqlmap",
		"commix", "davtest", "deblaze", "gobuster", "dirb", "dirbuster",
		"wfuzz", "websploit", "whatweb", "wpscan", "joomscan", "drupwn",
	}},
	{Name: "password_attacks", Tools: []string{
		"hydra", "medusa", "ncrack", "john", "hashcat", "crunch", "wordlists",
		"cewl", "chntpw", "cmospwd", "fcrackzip", "pdfcrack", "pyrit",
		"rainbowcrack", "rcracki-mt", "rarcrack", "sipcrack", "sucrack",
	}},
	{Name: "wireless_attacks", Tools: []string{
		"aircrack-ng", "reaver", "bully", "cowpatty", "eapmd5pass", "fern-wifi-cracker",
		"mdk3", "wifite", "kismet", "wireshark", "tshark",
	}},
	{Name: "exploitation_tools", Tools: []string{
		"metasploit-framework", "msfconsole", "armitage", "beef-xss", "backdoor-factory",
		"cisco-auditing-tool", "cisco-global-exploiter", "cisco-ocs", "cisco-torch",
		"commix", "crackle", "searchsploit", "jboss-autopwn", "linux-exploit-suggester",
		"setoolkit", "shellnoob", "sqlmap", "termineter", "yersinia",
	}},
	{Name: "forensics", Tools: []string{
		"autopsy", "binwalk", "bulk_extractor", "cstool", "chntpw",
		"dc3dd", "ddrescue", "dumpzilla", "extundelete", "foremost", "galleta",
		"guymager", "hashdeep", "inetsim", "lbd", "missidentify",
		"pasco", "pdfid", "pdf-parser", "regripper", "volatility", "wireshark",
	}},
	{Name: "stress_testing", Tools: []string{
		"dhcpig", "funkload", "iaxflood", "inviteflood", "mdk3",
		"rtpflood", "slowhttptest", "t50", "thc-ssl-dos",
	}},
	{Name: "sniffing_spoofing", Tools: []string{
		"bettercap", "burpsuite", "driftnet", "ettercap", "hexinject",
		"mitmproxy", "responder", "rtpbreak", "sctpscan", "sipp", "sipvicious",
		"sslsplit", "sslstrip", "voiphopper", "wireshark", "yersinia",
	}},
	{Name: "post_exploitation", Tools: []string{
		"backdoor-factory", "cryptcat", "dbd", "nishang",
		"powersploit", "sbd", "shellter", "weevely",
	}},
	{Name: "reporting_tools", Tools: []string{
		"casefile", "cherrytree", "dradis", "keepnote", "maltego",
		"metagoofil", "pipal",
	}},
	{Name: "social_engineering", Tools: []string{
		"backdoor-factory", "beef-xss", "setoolkit",
	}},
}

// Discoverer resolves catalogue tools on PATH. The lookup runs once per
// process.
type Discoverer struct {
	lookPath func(string) (string, error)

	once  sync.Once
	paths map[string]string
}

// NewDiscoverer returns a PATH-based discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{lookPath: exec.LookPath}
}

func (d *Discoverer) discover() map[string]string {
	d.once.Do(func() {
		d.paths = map[string]string{}
		for _, name := range AllTools() {
			if path, err := d.lookPath(name); err == nil {
				d.paths[name] = path
			}
		}
	})
	return d.paths
}

// Installed implements ports.ToolDiscoverer, sorted by name.
func (d *Discoverer) Installed(context.Context) []string {
	paths := d.discover()
	installed := make([]string, 0, len(paths))
	for name := range paths {
		installed = append(installed, name)
	}
	sort.Strings(installed)
	return installed
}

// Info describes one tool, catalogued or not.
func (d *Discoverer) Info(name string) domain.ToolInfo {
	path, ok := d.discover()[name]
	if !ok {
		if p, err := d.lookPath(name); err == nil {
			path, ok = p, true
		}
	}
	return domain.ToolInfo{
		Name:       name,
		Installed:  ok,
		Path:       path,
		Categories: CategoriesOf(name),
	}
}

// ByCategory lists every tool of category with its install state. The bool
// is false for an unknown category.
func (d *Discoverer) ByCategory(category string) ([]domain.ToolInfo, bool) {
	for _, c := range Catalogue {
		if c.Name != category {
			continue
		}
		infos := make([]domain.ToolInfo, 0, len(c.Tools))
		for _, name := range c.Tools {
			infos = append(infos, d.Info(name))
		}
		return infos, true
	}
	return nil, false
}

// Categories returns the catalogue category names in display order.
func Categories() []string {
	names := make([]string, 0, len(Catalogue))
	for _, c := range Catalogue {
		names = append(names, c.Name)
	}
	return names
}

// CategoriesOf returns every category listing name.
func CategoriesOf(name string) []string {
	var categories []string
	for _, c := range Catalogue {
		for _, tool := range c.Tools {
			if tool == name {
				categories = append(categories, c.Name)
				break
			}
		}
	}
	return categories
}

// AllTools returns the de-duplicated catalogue, sorted.
func AllTools() []string {
	seen := map[string]bool{}
	var all []string
	for _, c := range Catalogue {
		for _, tool := range c.Tools {
			if !seen[tool] {
				seen[tool] = true
				all = append(all, tool)
			}
		}
	}
	sort.Strings(all)
	return all
}

var _ ports.ToolDiscoverer = (*Discoverer)(nil)
