/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sessionstore

import (
	"encoding/json"

	"github.com/medvault/vault/pkg/session"
)

type redisDocument struct {
	Credential session.Credential `json:"credential"`
}

func (d *redisDocument) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *redisDocument) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
