package shellwords

import "testing"

func TestCommandName(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{command: "nmap -sV 10.0.0.5", want: "nmap"},
		{command: "/usr/bin/nikto -h http://10.0.0.5", want: "nikto"},
		{command: "sudo -E masscan -p1-65535 10.0.0.0/24", want: "masscan"},
		{command: "HTTP_PROXY=http://127.0.0.1:8080 gobuster dir -u http://t", want: "gobuster"},
		{command: "cat hosts.txt | xargs -n1 ping -c1", want: "cat"},
		{command: "(cd /tmp && ls)", want: "cd"},
		{command: "time hydra -h", want: "hydra"},
		{command: "proxychains4 -q sqlmap -u 'http://t/?id=1'", want: "sqlmap"},
		{command: "sudo -u root nmap -sS 10.0.0.5", want: "nmap"},
		{command: "sudo -E -g wheel tcpdump -i eth0", want: "tcpdump"},
		{command: "nice -n 10 hydra -l admin ssh://t", want: "hydra"},
		{command: "timeout 30 nmap 10.0.0.5", want: "nmap"},
		{command: "timeout -s KILL 5m sudo -u kali nikto -h t", want: "nikto"},
		{command: "env -u HOME LANG=C wpscan --url t", want: "wpscan"},
		{command: "echo 'unterminated", want: "echo"},
		{command: "sudo -u root nmap 'unterminated", want: "nmap"},
		{command: "", want: ""},
	}
	for _, tt := range tests {
		if got := CommandName(tt.command); got != tt.want {
			t.Errorf("CommandName(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}
