// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"

	"gitlab.com/meridianframework/meridian/protocol"
	"gopkg.in/yaml.v3"
)

// A proposalFile is the YAML definition of a proposal and its steps.
type proposalFile struct {
	Title     string     `yaml:"title"`
	Submitter string     `yaml:"submitter"`
	Steps     []stepFile `yaml:"steps"`
}

type stepFile struct {
	Type    string `yaml:"type"`
	Coin    string `yaml:"coin"`
	Enabled bool   `yaml:"enabled"`
}

func loadProposalFile(path string) (*proposalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := new(proposalFile)
	err = yaml.Unmarshal(data, f)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// payloads converts the file's steps into payloads. Steps that omit the
// coin default to the given coin type.
func (f *proposalFile) payloads(defaultCoin protocol.CoinType) ([]protocol.Payload, error) {
	var payloads []protocol.Payload
	for i, step := range f.Steps {
		typ, err := protocol.ParsePayloadType(step.Type)
		if err != nil {
			return nil, fmt.Errorf("step %d: %v", i+1, err)
		}

		coin := defaultCoin
		if step.Coin != "" {
			coin, err = protocol.ParseCoinType(step.Coin)
			if err != nil {
				return nil, fmt.Errorf("step %d: %v", i+1, err)
			}
		}

		switch typ {
		case protocol.PayloadTypeInitializeConversionMap:
			payloads = append(payloads, &protocol.InitializeConversionMap{Coin: coin})
		case protocol.PayloadTypeRegisterPairing:
			payloads = append(payloads, &protocol.RegisterPairing{Coin: coin})
		case protocol.PayloadTypeSetMigrationFlag:
			payloads = append(payloads, &protocol.SetMigrationFlag{Enabled: step.Enabled})
		}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("the proposal has no steps")
	}
	return payloads, nil
}
