package discovery

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultPort is the UDP port used for session discovery.
	DefaultPort = 9998
	// BroadcastInterval is how often hosts advertise their session.
	BroadcastInterval = 1 * time.Second
	// SessionExpiry is how long a session stays visible after its last broadcast.
	SessionExpiry = 4 * time.Second
)

// SessionInfo describes a game session on the network.
type SessionInfo struct {
	SessionID    uuid.UUID `json:"session_id"`
	Host         string    `json:"host"`
	GameAddr     string    `json:"game_addr"` // TCP host:port for the controlling client
	SpectateAddr string    `json:"spectate_addr,omitempty"`
	Controlled   bool      `json:"controlled"` // a client already controls the player
	Status       string    `json:"status"`
}

// Joinable reports whether a client can still take control of the session.
func (s SessionInfo) Joinable() bool {
	return !s.Controlled && s.Status == "playing"
}

// --- Broadcaster ---

// Broadcaster periodically sends UDP packets advertising a session. The
// advertisement is rebuilt from info before every send.
type Broadcaster struct {
	info func() SessionInfo
	port int
	done chan struct{}
	once sync.Once
}

// NewBroadcaster creates a broadcaster sending to the given UDP port.
func NewBroadcaster(info func() SessionInfo, port int) *Broadcaster {
	return &Broadcaster{
		info: info,
		port: port,
		done: make(chan struct{}),
	}
}

// Start begins broadcasting session info via UDP.
func (b *Broadcaster) Start() error {
	// Use ListenPacket (not DialUDP) so broadcast works on Linux.
	// DialUDP to 255.255.255.255 silently fails without SO_BROADCAST.
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return fmt.Errorf("create broadcast socket: %w", err)
	}
	go b.broadcastLoop(conn)
	return nil
}

// Stop stops the broadcaster.
func (b *Broadcaster) Stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *Broadcaster) broadcastLoop(conn net.PacketConn) {
	defer conn.Close()

	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	// Send immediately on start, then on tick
	b.sendBroadcast(conn)

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.sendBroadcast(conn)
		}
	}
}

func (b *Broadcaster) sendBroadcast(conn net.PacketConn) {
	data, err := json.Marshal(b.info())
	if err != nil {
		log.Printf("[DISCOVERY] Failed to encode advertisement: %v", err)
		return
	}

	// Loopback first: 255.255.255.255 is often dropped by the local firewall
	conn.WriteTo(data, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: b.port})
	conn.WriteTo(data, &net.UDPAddr{IP: net.IPv4bcast, Port: b.port})
	b.broadcastOnInterfaces(conn, data)
}

// broadcastOnInterfaces sends to each interface's broadcast address as a fallback.
func (b *Broadcaster) broadcastOnInterfaces(conn net.PacketConn, data []byte) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			conn.WriteTo(data, &net.UDPAddr{IP: broadcastAddr(ipnet), Port: b.port})
		}
	}
}

// broadcastAddr returns IP | ~Mask for an IPv4 network.
func broadcastAddr(ipnet *net.IPNet) net.IP {
	ip4 := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	broadcast := make(net.IP, net.IPv4len)
	for i := range broadcast {
		broadcast[i] = ip4[i] | ^mask[i]
	}
	return broadcast
}

// --- Listener ---

// seenSession holds a session and when it was last advertised.
type seenSession struct {
	info     SessionInfo
	lastSeen time.Time
}

// Listener collects session advertisements.
type Listener struct {
	port     int
	sessions map[uuid.UUID]*seenSession
	mu       sync.RWMutex
	conn     *net.UDPConn
	done     chan struct{}
	once     sync.Once
}

// NewListener creates a listener for the given UDP port.
func NewListener(port int) *Listener {
	return &Listener{
		port:     port,
		sessions: make(map[uuid.UUID]*seenSession),
		done:     make(chan struct{}),
	}
}

// Start begins listening for advertisements.
func (l *Listener) Start() error {
	var err error
	l.conn, err = net.ListenUDP("udp4", &net.UDPAddr{Port: l.port, IP: net.IPv4zero})
	if err != nil {
		return fmt.Errorf("listen UDP on port %d: %w (is another instance browsing?)", l.port, err)
	}

	go l.listenLoop()
	go l.cleanupLoop()

	return nil
}

// Stop stops the listener.
func (l *Listener) Stop() {
	l.once.Do(func() { close(l.done) })
	if l.conn != nil {
		l.conn.Close()
	}
}

// Sessions returns the currently visible sessions ordered by host.
func (l *Listener) Sessions() []SessionInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sessions := make([]SessionInfo, 0, len(l.sessions))
	for _, s := range l.sessions {
		sessions = append(sessions, s.info)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Host != sessions[j].Host {
			return sessions[i].Host < sessions[j].Host
		}
		return sessions[i].GameAddr < sessions[j].GameAddr
	})
	return sessions
}

// WaitJoinable polls until a joinable session is visible or the timeout
// passes.
func (l *Listener) WaitJoinable(timeout time.Duration) (SessionInfo, bool) {
	deadline := time.Now().Add(timeout)
	for {
		for _, s := range l.Sessions() {
			if s.Joinable() {
				return s, true
			}
		}
		if time.Now().After(deadline) {
			return SessionInfo{}, false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (l *Listener) listenLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-l.done:
			return
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, src, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		var info SessionInfo
		if err := json.Unmarshal(buf[:n], &info); err != nil || info.SessionID == uuid.Nil {
			continue
		}
		info.GameAddr = withSourceHost(info.GameAddr, src.IP)
		info.SpectateAddr = withSourceHost(info.SpectateAddr, src.IP)
		l.record(info, time.Now())
	}
}

// withSourceHost replaces an empty or unspecified host in addr with the
// sender's IP.
func withSourceHost(addr string, src net.IP) string {
	if addr == "" {
		return ""
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if ip := net.ParseIP(host); host != "" && (ip == nil || !ip.IsUnspecified()) {
		return addr
	}
	return net.JoinHostPort(src.String(), port)
}

func (l *Listener) record(info SessionInfo, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions[info.SessionID] = &seenSession{info: info, lastSeen: at}
}

func (l *Listener) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.expire(now)
		}
	}
}

// expire drops sessions not advertised within SessionExpiry of now.
func (l *Listener) expire(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, s := range l.sessions {
		if now.Sub(s.lastSeen) > SessionExpiry {
			delete(l.sessions, id)
		}
	}
}
