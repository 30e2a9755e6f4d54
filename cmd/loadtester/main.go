// Command loadtester drives a fixed request rate against a running
// relay's /transfer endpoint, mirroring the prototype's load-testing
// companion binary.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nearft/relay/internal/model"
)

func main() {
	url := flag.String("url", "http://localhost:8080/transfer", "target /transfer endpoint")
	rps := flag.Int("rps", 10, "requests per second")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	receiver := flag.String("receiver", "loadtest-receiver.near", "reciever_id to send to")
	amount := flag.String("amount", "1", "amount per transfer")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()

	deadline := time.Now().Add(*duration)

	var sent, succeeded, failed atomic.Int64

	for time.Now().Before(deadline) {
		<-ticker.C
		go func() {
			sent.Add(1)
			if err := sendTransfer(client, *url, *receiver, *amount); err != nil {
				failed.Add(1)
				return
			}
			succeeded.Add(1)
		}()
	}

	time.Sleep(2 * time.Second) // drain in-flight requests before reporting
	fmt.Printf("sent=%d succeeded=%d failed=%d\n", sent.Load(), succeeded.Load(), failed.Load())
}

func sendTransfer(client *http.Client, url, receiver, amount string) error {
	body, err := json.Marshal(model.TransferRequest{RecieverID: receiver, Amount: amount})
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
