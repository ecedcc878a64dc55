// Package launcher turns a native executable into the JavaScript entry point
// genezio loads.
//
// The generated module carries the executable as a base64 string. When the
// platform constructs the deployed class (once per process) the module writes
// the bytes to ScratchPath, marks them executable and spawns them as a
// long-lived child sharing the host's stdio. The embedder only emits text.
package launcher

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// ScratchPath is where the host writes the executable at startup.
const ScratchPath = "/tmp/trap"

// DefaultEntrypointFile is the script name genezio looks for in the staging directory.
const DefaultEntrypointFile = "index.js"

// placeholder is the only substitution point in template.
const placeholder = "__TRAP_PAYLOAD__"

// Delimiters lists the characters that would end or break the payload's string literal.
const Delimiters = "'\\\r\n"

// payloadPrefix precedes the encoded payload in the rendered script.
const payloadPrefix = "const TRAP_BIN = Buffer.from('"

var template = strings.TrimSpace(`
import { writeFileSync, chmodSync } from 'fs';
import { spawn } from 'child_process';

const TRAP_PATH = '` + ScratchPath + `';
` + payloadPrefix + placeholder + `', 'base64');

@GenezioDeploy()
export class Service {
  constructor() {
    writeFileSync(TRAP_PATH, TRAP_BIN);
    chmodSync(TRAP_PATH, '755');

    console.log('trap start time', Date.now());
    this.trap = spawn(TRAP_PATH, [], { stdio: 'inherit' });
  }

  @GenezioMethod()
  async call() { }
}
`) + "\n"

// ErrPayloadNotFound means the text is not a script produced by Embed.
var ErrPayloadNotFound = errors.New("launcher payload not found")

// Encode is the payload encoding: standard, padded base64.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Embed renders the launcher script for the executable bytes b.
// Identical input always yields an identical script.
func Embed(b []byte) string {
	return strings.Replace(template, placeholder, Encode(b), 1)
}

// Decode extracts and decodes the payload of a script produced by Embed.
func Decode(script string) ([]byte, error) {
	start := strings.Index(script, payloadPrefix)
	if start < 0 {
		return nil, ErrPayloadNotFound
	}
	rest := script[start+len(payloadPrefix):]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return nil, ErrPayloadNotFound
	}
	data, err := base64.StdEncoding.DecodeString(rest[:end])
	if err != nil {
		return nil, errors.Join(ErrPayloadNotFound, err)
	}
	return data, nil
}

// Summary describes the payload embedded in a script.
type Summary struct {
	PayloadSize   int
	PayloadSHA256 string
	ScriptSize    int
}

// Inspect decodes script and summarises its payload.
func Inspect(script string) (Summary, error) {
	data, err := Decode(script)
	if err != nil {
		return Summary{}, err
	}
	sum := sha256.Sum256(data)
	return Summary{
		PayloadSize:   len(data),
		PayloadSHA256: hex.EncodeToString(sum[:]),
		ScriptSize:    len(script),
	}, nil
}
