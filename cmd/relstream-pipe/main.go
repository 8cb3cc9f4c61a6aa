// Command relstream-pipe pumps bytes between stdin/stdout and a relstream
// endpoint, the way a netcat-style pipe sample would: everything written to
// stdin is appended to the outbound stream, and the inbound stream is read
// in 4096-byte chunks, each written to stdout once it is complete; a
// trailing partial chunk is not written. Grounded on the same
// sample/tun_*_echo main shape as relstream-echo, split into two
// directions instead of one loop.
package main

import (
	"io"
	"log"
	"os"

	"github.com/YaoZengzeng/relstream/config"
	"github.com/YaoZengzeng/relstream/stream"
)

const chunk = 4096

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("Usage: %s <local-address> <peer-address>", os.Args[0])
	}

	localAddr := os.Args[1]
	peerAddr := os.Args[2]

	cfg := config.LoadOrDefault(os.Getenv("RELSTREAM_CONFIG"))

	ep, err := stream.Dial(localAddr, peerAddr, cfg)
	if err != nil {
		log.Fatalf("relstream-pipe: dial failed: %v", err)
	}
	defer ep.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		buf := make([]byte, chunk)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				ep.Send(buf[:n])
			}
			if err != nil {
				if err != io.EOF {
					log.Printf("relstream-pipe: stdin read failed: %v", err)
				}
				return
			}
		}
	}()

	for {
		v, err := ep.Recv(chunk)
		if err != nil {
			log.Printf("relstream-pipe: recv failed: %v", err)
			break
		}
		if _, err := os.Stdout.Write(v); err != nil {
			log.Printf("relstream-pipe: stdout write failed: %v", err)
			break
		}
	}

	<-done
}
