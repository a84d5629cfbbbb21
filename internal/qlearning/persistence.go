package qlearning

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// savedTable is the serialized form of a Learner.
type savedTable struct {
	Q                               map[string]Values
	LearningRate, Discount, Epsilon float64
}

// Save the Q-table and the hyperparameters to w, using gob.
func (l *Learner) Save(w io.Writer) error {
	saved := savedTable{
		Q:            make(map[string]Values, len(l.Q)),
		LearningRate: l.LearningRate,
		Discount:     l.Discount,
		Epsilon:      l.Epsilon,
	}
	for key, values := range l.Q {
		saved.Q[key] = *values
	}
	if err := gob.NewEncoder(w).Encode(&saved); err != nil {
		return errors.Wrap(err, "failed to encode Q-table")
	}
	return nil
}

// Load replaces the Q-table and hyperparameters of l with the ones read from r.
func (l *Learner) Load(r io.Reader) error {
	var saved savedTable
	if err := gob.NewDecoder(r).Decode(&saved); err != nil {
		return errors.Wrap(err, "failed to decode Q-table")
	}
	l.Q = make(map[string]*Values, len(saved.Q))
	for key, values := range saved.Q {
		l.Q[key] = &values
	}
	l.LearningRate, l.Discount, l.Epsilon = saved.LearningRate, saved.Discount, saved.Epsilon
	return nil
}

// SaveToFile saves the learner to the given path, replacing it atomically.
func (l *Learner) SaveToFile(path string) error {
	tmpPath := path + "~"
	f, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", tmpPath)
	}
	if err = l.Save(f); err != nil {
		_ = f.Close()
		return errors.WithMessagef(err, "saving to %q", tmpPath)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %q", tmpPath)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "failed to rename %q to %q", tmpPath, path)
	}
	klog.V(1).Infof("Saved Q-table with %d boards to %q", len(l.Q), path)
	return nil
}

// LoadFromFile loads the learner from the given path.
func (l *Learner) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open Q-table file")
	}
	defer func() { _ = f.Close() }()
	if err = l.Load(f); err != nil {
		return errors.WithMessagef(err, "loading %q", path)
	}
	klog.V(1).Infof("Loaded Q-table with %d boards from %q", len(l.Q), path)
	return nil
}
