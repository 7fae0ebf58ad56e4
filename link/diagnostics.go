package link

import (
	"context"
	"log"
	"net"
	"net/url"
	"time"
)

// Diagnose logs the local interfaces, resolves the endpoint host and
// measures how long a TCP connect to it takes. Failures are only logged.
func Diagnose(ctx context.Context, endpoint string) {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("Unable to list interfaces: %v", err)
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			log.Printf("Unable to list addresses of %s: %v", ifc.Name, err)
		}
		log.Printf("\t%s\tMAC addr: %s\t%v", ifc.Name, ifc.HardwareAddr, addrs)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		log.Printf("Unable to parse endpoint %q: %v", endpoint, err)
		return
	}
	host := u.Hostname()

	ips, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		log.Printf("IP lookup %s failed: %v", host, err)
		return
	}
	log.Printf("IP lookup %s: %v", host, ips)

	rtt, err := Ping(ctx, hostPort(u))
	if err != nil {
		log.Printf("Ping %s failed: %v", host, err)
		return
	}
	log.Printf("Ping %s: %d ms", host, rtt.Milliseconds())
}

// Ping returns the time it takes to open a TCP connection to addr.
func Ping(ctx context.Context, addr string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, err
	}
	rtt := time.Since(start)
	conn.Close()
	return rtt, nil
}

func hostPort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return net.JoinHostPort(u.Hostname(), p)
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}
