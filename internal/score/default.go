package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"sort"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type DefaultStore struct {
	Path   string
	Logger *log.Logger

	now func() time.Time
	db  *sql.DB
}

func NewDefaultStore(path string, logger *log.Logger) *DefaultStore {
	return &DefaultStore{Path: path, Logger: logger, now: time.Now}
}

type InputsCompact struct {
	Pitch string
	Times []time.Duration
}

// compactInputs groups presses by pitch, in the order each pitch was first pressed.
func compactInputs(inputs []game.Input) []InputsCompact {
	ins := []InputsCompact{}
	columns := map[string]int{}
	for _, i := range inputs {
		col, ok := columns[i.Pitch]
		if !ok {
			col = len(ins)
			columns[i.Pitch] = col
			ins = append(ins, InputsCompact{Pitch: i.Pitch})
		}
		ins[col].Times = append(ins[col].Times, i.At)
	}
	return ins
}

// uncompactInputs restores the press order by time.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Pitch: i.Pitch, At: t})
		}
	}
	sort.SliceStable(ins, func(i, j int) bool { return ins[i].At < ins[j].At })
	return ins
}

func (s *DefaultStore) Init() error {
	path := s.Path
	if path == "" {
		path = "./scores.db"
	}
	if nil == s.now {
		s.now = time.Now
	}
	if nil == s.Logger {
		s.Logger = log.Nop()
	}
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return errors.Wrapf(err, "unable to open %s", path)
	}

	initStatement := `
	create table if not exists sessions
	  (
		  id integer not null primary key,
		  sum text,
		  session text,
		  played_at integer,
		  points real,
		  correct integer,
		  incorrect integer,
		  missed integer,
		  best_streak integer,
		  inputs bytearray
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return errors.Wrap(err, "unable to create sessions table")
	}

	s.db = db
	s.Logger.Debugf("[STORE] opened %s", path)
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func hashScore(sc *game.Score) string {
	// Only the parts that affect play; renaming a score keeps its history.
	data, _ := json.Marshal(struct {
		Tempo    float64
		Measures []game.Measure
	}{sc.Tempo, sc.Measures})
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Save(sc *game.Score, session *Session) error {
	if nil == s.db {
		return errors.New("store is not initialised")
	}
	data, err := json.Marshal(compactInputs(session.Inputs))
	if nil != err {
		return errors.Wrap(err, "unable to marshal inputs")
	}
	_, err = s.db.Exec(
		"insert into sessions(sum, session, played_at, points, correct, incorrect, missed, best_streak, inputs) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		hashScore(sc), session.ID.String(), s.now().UnixNano(), session.Points,
		session.Correct, session.Incorrect, session.Missed, session.BestStreak, data,
	)
	if nil != err {
		return errors.Wrap(err, "unable to save session")
	}
	return nil
}

func (s *DefaultStore) Load(sc *game.Score) ([]History, error) {
	histories := []History{}
	if nil == s.db {
		return histories, errors.New("store is not initialised")
	}
	rows, err := s.db.Query(
		"select sum, session, played_at, points, correct, incorrect, missed, best_streak, inputs from sessions where sum = ? order by id",
		hashScore(sc),
	)
	if nil != err {
		return histories, errors.Wrap(err, "unable to load sessions")
	}
	defer rows.Close()
	for rows.Next() {
		var h History
		var playedAt int64
		var inputs []byte
		err := rows.Scan(&h.Sum, &h.SessionID, &playedAt, &h.Points, &h.Correct, &h.Incorrect, &h.Missed, &h.BestStreak, &inputs)
		if nil != err {
			s.Logger.Warnf("unable to scan session: %v", err)
			continue
		}
		var ns []InputsCompact
		if err := json.Unmarshal(inputs, &ns); nil != err {
			s.Logger.Warnf("unable to unmarshal input history: %v", err)
			continue
		}
		h.PlayedAt = time.Unix(0, playedAt)
		h.Inputs = uncompactInputs(ns)
		histories = append(histories, h)
	}
	return histories, errors.Wrap(rows.Err(), "unable to read sessions")
}
