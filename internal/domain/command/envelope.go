package command

import (
	"encoding/json"
	"fmt"
)

// Envelope forma persistida de un comando en la cola.
type Envelope struct {
	Cmd       string          `json:"cmd"`
	Actor     string          `json:"actor"`
	CreatedAt string          `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope serializa el payload tipado del comando.
func NewEnvelope(actor, createdAt string, cmd Command) (Envelope, error) {
	env := Envelope{Cmd: cmd.Name(), Actor: actor, CreatedAt: createdAt}
	if _, unknown := cmd.(Unknown); unknown {
		env.Payload = json.RawMessage("{}")
		return env, nil
	}
	raw, err := json.Marshal(cmd)
	if err != nil {
		return Envelope{}, fmt.Errorf("serializar %s: %w", cmd.Name(), err)
	}
	env.Payload = raw
	return env, nil
}

// Command decodifica el payload al tipo registrado para Cmd.
func (e Envelope) Command() (Command, error) {
	return Decode(e.Cmd, e.Payload)
}
