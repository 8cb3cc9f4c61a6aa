// Command relstream-echo is a minimal echo server/client sample, grounded
// on the teacher's sample/tun_udp_echo and sample/tun_tcp_echo mains (parse
// addresses from argv, build an endpoint, loop reading and writing it)
// stripped of the stack/nic/tundev setup this transport has no use for: a
// stream.Endpoint is just dialed directly against a local and peer
// address.
package main

import (
	"log"
	"os"

	"github.com/YaoZengzeng/relstream/config"
	"github.com/YaoZengzeng/relstream/stream"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("Usage: %s <local-address> <peer-address>", os.Args[0])
	}

	localAddr := os.Args[1]
	peerAddr := os.Args[2]

	cfg := config.LoadOrDefault(os.Getenv("RELSTREAM_CONFIG"))

	ep, err := stream.Dial(localAddr, peerAddr, cfg)
	if err != nil {
		log.Fatalf("relstream-echo: dial failed: %v", err)
	}
	defer ep.Close()

	log.Printf("relstream-echo: %s <-> %s", localAddr, peerAddr)

	for {
		v, err := ep.Recv(1)
		if err != nil {
			log.Printf("relstream-echo: recv failed: %v", err)
			return
		}
		log.Printf("relstream-echo: read %q", string(v))
		ep.Send(v)
	}
}
