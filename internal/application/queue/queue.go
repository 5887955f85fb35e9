// Package queue es la entrada durable de comandos: un archivo por comando en inbox/,
// procesado en orden de nombre y archivado en processed/ con una línea en logs/worker.log.
//
// Un archivo se reclama moviéndolo a processing/ antes de ejecutarlo. El rename es
// atómico dentro del directorio de datos, así que entre varios procesos (API y worker)
// solo uno ejecuta cada comando.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

// MsgBadCommandFile resultado de un archivo que no se puede interpretar.
const MsgBadCommandFile = "bad command file"

// MsgAlreadyClaimed el archivo ya fue tomado por otro proceso.
const MsgAlreadyClaimed = "command already claimed"

const (
	filePrefix = "CMD_"
	fileExt    = ".json"
	nameLayout = "20060102T150405"
)

// Executor ejecuta un sobre ya leído de la cola.
type Executor interface {
	ExecuteEnvelope(ctx context.Context, env command.Envelope) engine.Outcome
}

// Queue directorios de trabajo bajo la raíz de datos.
type Queue struct {
	inbox      string
	processing string
	processed  string
	logFile    string
	exec       Executor
	clock      func() time.Time
	log        *logger.Logger
	mu         sync.Mutex // serializa escrituras a worker.log
}

// Option configura la cola.
type Option func(*Queue)

// WithClock reloj para nombres de archivo y líneas de log.
func WithClock(clock func() time.Time) Option {
	return func(q *Queue) { q.clock = clock }
}

// WithLogger logger estructurado.
func WithLogger(log *logger.Logger) Option {
	return func(q *Queue) { q.log = log.Component("queue") }
}

// New crea inbox/, processing/, processed/ y logs/ bajo dataDir.
func New(dataDir string, exec Executor, opts ...Option) (*Queue, error) {
	q := &Queue{
		inbox:      filepath.Join(dataDir, "inbox"),
		processing: filepath.Join(dataDir, "processing"),
		processed:  filepath.Join(dataDir, "processed"),
		logFile:    filepath.Join(dataDir, "logs", "worker.log"),
		exec:       exec,
		clock:      time.Now,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	for _, dir := range []string{q.inbox, q.processing, q.processed, filepath.Dir(q.logFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear %s: %w", dir, err)
		}
	}
	return q, nil
}

// Write persiste el comando en inbox/ y devuelve la ruta del archivo. El archivo aparece
// completo (temporal + rename).
func (q *Queue) Write(_ context.Context, actor string, cmd command.Command) (string, error) {
	return q.writeTo(q.inbox, actor, cmd)
}

func (q *Queue) writeTo(dir, actor string, cmd command.Command) (string, error) {
	now := q.clock()
	env, err := command.NewEnvelope(actor, now.Format(entity.TimeLayout), cmd)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return "", fmt.Errorf("serializar comando: %w", err)
	}

	name := fmt.Sprintf("%s%s_%s%s", filePrefix, now.Format(nameLayout), shortID(), fileExt)
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("escribir comando: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("publicar comando: %w", err)
	}
	return path, nil
}

// Submit persiste el comando ya reclamado en processing/ y lo ejecuta de inmediato
// (camino síncrono de la API). Drain nunca ve estos archivos.
func (q *Queue) Submit(ctx context.Context, actor string, cmd command.Command) (engine.Outcome, error) {
	path, err := q.writeTo(q.processing, actor, cmd)
	if err != nil {
		return engine.Outcome{}, err
	}
	return q.run(ctx, path), nil
}

// ProcessFile reclama, lee, ejecuta y archiva un archivo de inbox/. Si otro proceso ya lo
// reclamó no se ejecuta y el resultado es MsgAlreadyClaimed. El archivo se mueve a
// processed/ con cualquier resultado; un fallo al moverlo se ignora.
func (q *Queue) ProcessFile(ctx context.Context, path string) engine.Outcome {
	claimed, err := q.claim(path)
	if err != nil {
		return engine.Outcome{OK: false, Message: MsgAlreadyClaimed}
	}
	return q.run(ctx, claimed)
}

// claim mueve el archivo a processing/. Falla si ya no está en inbox/.
func (q *Queue) claim(path string) (string, error) {
	dst := filepath.Join(q.processing, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			q.log.Debug().Str("file", filepath.Base(path)).Msg("comando ya reclamado")
		} else {
			q.log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("no se pudo reclamar el comando")
		}
		return "", err
	}
	return dst, nil
}

func (q *Queue) run(ctx context.Context, path string) engine.Outcome {
	base := filepath.Base(path)
	raw, err := os.ReadFile(path)
	var env command.Envelope
	if err == nil {
		err = json.Unmarshal(raw, &env)
	}
	if err != nil {
		q.appendLog(fmt.Sprintf("BAD_CMD %s %v", base, err))
		q.log.Warn().Err(err).Str("file", base).Msg("archivo de comando ilegible")
		q.archive(path)
		return engine.Outcome{OK: false, Message: MsgBadCommandFile}
	}

	out := q.exec.ExecuteEnvelope(ctx, env)
	q.archive(path)
	q.appendLog(fmt.Sprintf("%s ok=%t msg=%s", env.Cmd, out.OK, out.Message))
	q.log.Debug().Str("file", base).Str("cmd", env.Cmd).Bool("ok", out.OK).Msg("comando procesado")
	return out
}

// Drain procesa todos los pendientes en orden cronológico. Devuelve cuántos ejecutó; los
// que otro proceso reclamó primero no cuentan.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	pending, err := q.Pending()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		claimed, err := q.claim(path)
		if err != nil {
			continue
		}
		q.run(ctx, claimed)
		n++
	}
	return n, nil
}

// Pending rutas de inbox/ pendientes, ordenadas por nombre.
func (q *Queue) Pending() ([]string, error) {
	entries, err := os.ReadDir(q.inbox)
	if err != nil {
		return nil, fmt.Errorf("leer inbox: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		out = append(out, filepath.Join(q.inbox, name))
	}
	slices.Sort(out)
	return out, nil
}

func (q *Queue) archive(path string) {
	dst := filepath.Join(q.processed, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		q.log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("no se pudo archivar el comando")
	}
}

// appendLog agrega "[ts] línea" a worker.log. Los errores solo se registran.
func (q *Queue) appendLog(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f, err := os.OpenFile(q.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		q.log.Error().Err(err).Msg("abrir worker.log")
		return
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "[%s] %s\n", q.clock().Format(entity.TimeLayout), line); err != nil {
		q.log.Error().Err(err).Msg("escribir worker.log")
	}
}

// shortID 8 hex en mayúsculas.
func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
