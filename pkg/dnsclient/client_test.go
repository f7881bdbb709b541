package dnsclient_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dnspropagation/pkg/dnsclient"
)

// newTestServer runs a DNS server on a loopback ephemeral port and returns
// its address.
func newTestServer(t *testing.T, handler dns.Handler) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           handler,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func txtRR(name string, segments ...string) dns.RR {
	return &dns.TXT{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
		Txt: segments,
	}
}

// answerHandler replies to every question with the records produced by
// answers, counting queries.
type answerHandler struct {
	answers func(q dns.Question) []dns.RR
	rcode   int

	mu        sync.Mutex
	queries   int
	recursion bool
}

func (h *answerHandler) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	h.mu.Lock()
	h.queries++
	h.recursion = r.RecursionDesired
	h.mu.Unlock()

	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true
	if h.rcode != dns.RcodeSuccess {
		m.Rcode = h.rcode
	} else if h.answers != nil {
		m.Answer = h.answers(r.Question[0])
	}
	_ = w.WriteMsg(m)
}

func (h *answerHandler) queryCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queries
}

func (h *answerHandler) lastRecursion() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recursion
}

func TestLookupTXT(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "hello ", "world")}
	}})
	client := dnsclient.New([]string{addr})

	values, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	// Character-string segments of one record are joined.
	assert.Equal(t, []string{"hello world"}, values)
}

func TestLookupTXTMultipleRecords(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "one"), txtRR(q.Name, "two")}
	}})
	client := dnsclient.New([]string{addr})

	values, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, values)
}

func TestLookupTXTEmptyAnswer(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{})
	client := dnsclient.New([]string{addr})

	values, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestLookupTXTNXDomain(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{rcode: dns.RcodeNameError})
	client := dnsclient.New([]string{addr})

	_, err := client.LookupTXT(context.Background(), "missing.example.com")
	assert.ErrorIs(t, err, dnsclient.ErrNotFound)
}

func TestLookupTXTIgnoresOtherAnswerTypes(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		cname := &dns.CNAME{
			Hdr:    dns.RR_Header{Name: q.Name, Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: 60},
			Target: "alias.example.com.",
		}
		return []dns.RR{cname, txtRR("alias.example.com.", "value")}
	}})
	client := dnsclient.New([]string{addr})

	values, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, values)
}

func TestLookupNS(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{
			&dns.NS{Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 60}, Ns: "ns1.example.net."},
			&dns.NS{Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 60}, Ns: "ns2.example.net."},
		}
	}})
	client := dnsclient.New([]string{addr})

	hosts, err := client.LookupNS(context.Background(), "example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ns1.example.net.", "ns2.example.net."}, hosts)
}

func TestLookupA(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{
			&dns.A{Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60}, A: net.ParseIP("192.0.2.1")},
		}
	}})
	client := dnsclient.New([]string{addr})

	addrs, err := client.LookupA(context.Background(), "ns1.example.net")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Equal(net.ParseIP("192.0.2.1")))
}

func TestLookupAAAA(t *testing.T) {
	t.Parallel()

	addr := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{
			&dns.AAAA{Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 60}, AAAA: net.ParseIP("2001:db8::1")},
		}
	}})
	client := dnsclient.New([]string{addr})

	addrs, err := client.LookupAAAA(context.Background(), "ns1.example.net")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Equal(net.ParseIP("2001:db8::1")))
}

func TestRecursionFlag(t *testing.T) {
	t.Parallel()

	handler := &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "value")}
	}}
	addr := newTestServer(t, handler)

	// Recursion desired by default.
	client := dnsclient.New([]string{addr})
	_, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.True(t, handler.lastRecursion())

	// Disabled for direct authoritative queries.
	client = dnsclient.New([]string{addr}, dnsclient.WithRecursion(false))
	_, err = client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.False(t, handler.lastRecursion())
}

func TestServerFailover(t *testing.T) {
	t.Parallel()

	failing := newTestServer(t, &answerHandler{rcode: dns.RcodeServerFailure})
	working := newTestServer(t, &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "value")}
	}})
	client := dnsclient.New([]string{failing, working}, dnsclient.WithTimeout(time.Second))

	values, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, values)
}

func TestAllServersFailing(t *testing.T) {
	t.Parallel()

	failing := newTestServer(t, &answerHandler{rcode: dns.RcodeRefused})
	client := dnsclient.New([]string{failing}, dnsclient.WithTimeout(time.Second))

	_, err := client.LookupTXT(context.Background(), "example.com")
	assert.ErrorIs(t, err, dnsclient.ErrExchange)
	assert.NotErrorIs(t, err, dnsclient.ErrNotFound)
}

func TestNoServers(t *testing.T) {
	t.Parallel()

	client := dnsclient.New(nil)

	_, err := client.LookupTXT(context.Background(), "example.com")
	assert.ErrorIs(t, err, dnsclient.ErrNoServers)
}

func TestCacheServesRepeatLookups(t *testing.T) {
	t.Parallel()

	handler := &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "value")}
	}}
	addr := newTestServer(t, handler)
	client := dnsclient.New([]string{addr}, dnsclient.WithCache(16, time.Minute))

	for i := 0; i < 3; i++ {
		values, err := client.LookupTXT(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"value"}, values)
	}
	assert.Equal(t, 1, handler.queryCount())
}

func TestClearCacheForcesNetworkLookup(t *testing.T) {
	t.Parallel()

	handler := &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "value")}
	}}
	addr := newTestServer(t, handler)
	client := dnsclient.New([]string{addr}, dnsclient.WithCache(16, time.Minute))

	_, err := client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)

	client.ClearCache()

	_, err = client.LookupTXT(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, handler.queryCount())
}

func TestEmptyAnswersAreNotCached(t *testing.T) {
	t.Parallel()

	handler := &answerHandler{}
	addr := newTestServer(t, handler)
	client := dnsclient.New([]string{addr}, dnsclient.WithCache(16, time.Minute))

	for i := 0; i < 2; i++ {
		values, err := client.LookupTXT(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Empty(t, values)
	}
	assert.Equal(t, 2, handler.queryCount())
}

func TestCacheDisabledByDefault(t *testing.T) {
	t.Parallel()

	handler := &answerHandler{answers: func(q dns.Question) []dns.RR {
		return []dns.RR{txtRR(q.Name, "value")}
	}}
	addr := newTestServer(t, handler)
	client := dnsclient.New([]string{addr})

	for i := 0; i < 2; i++ {
		_, err := client.LookupTXT(context.Background(), "example.com")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, handler.queryCount())
}
