// Package sssp provides a Go client for the Sophos Simple Scanning
// Protocol (SSSP), a line-oriented text protocol for driving an antivirus
// scanning daemon over a TCP or Unix domain socket.
//
// A Client owns a single daemon socket and supports one scan request at a
// time; it is not safe for concurrent use from multiple goroutines.
//
// # Quick Start
//
//	client := sssp.NewClient()
//	if err := client.Connect(sssp.ConnTCP, "localhost:4010"); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.ScanFile("/path/to/file.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Outcome: %s, Infected: %v\n", result.Outcome, result.IsInfected())
//
// When the daemon runs on a remote host without shared filesystem access,
// connect with kind "remotetcp" (or use the WithInlineData option). File
// contents are then streamed inside the protocol as SCANDATA requests
// instead of being referenced by path.
package sssp
