package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/tars/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrDuplicateTask is returned when an equal task is already stored.
	ErrDuplicateTask = errors.New("duplicate task")
)

// DefaultTaskBookFile is the file name used when none is configured.
const DefaultTaskBookFile = "tasks.yaml"

// TaskEntry is the on-disk form of a task.
type TaskEntry struct {
	Kind     models.TaskKind `yaml:"kind"`
	Name     string          `yaml:"name"`
	DateTime string          `yaml:"datetime,omitempty"`
	Priority string          `yaml:"priority,omitempty"`
	Status   string          `yaml:"status,omitempty"`
	Phone    string          `yaml:"phone,omitempty"`
	Email    string          `yaml:"email,omitempty"`
	Address  string          `yaml:"address,omitempty"`
	Tags     []string        `yaml:"tags"`
}

// TaskBookFile represents the top-level structure of the task book.
type TaskBookFile struct {
	Version string               `yaml:"version"`
	Tasks   map[string]TaskEntry `yaml:"tasks"`
}

// StoredTask pairs a task with its book ID.
type StoredTask struct {
	ID   string
	Task *models.Task
}

// TaskFilter specifies criteria for filtering tasks.
// All specified fields use AND logic: a task must match every criterion.
type TaskFilter struct {
	Kind       models.TaskKind
	Priorities []models.Priority
	Status     models.Status
	Tags       []string
	Keywords   []string
	After      *time.Time
	Before     *time.Time
}

// TaskBookManager defines the interface for the persistent task book.
type TaskBookManager interface {
	AddTask(task *models.Task) (string, error)
	ReplaceTask(id string, task *models.Task) error
	RemoveTask(id string) error
	GetTask(id string) (*models.Task, error)
	GetAllTasks() ([]StoredTask, error)
	FilterTasks(filter TaskFilter) ([]StoredTask, error)
	Load() error
	Save() error
}

type fileTaskBookManager struct {
	basePath string
	fileName string
	tasks    map[string]*models.Task
}

// NewTaskBookManager creates a TaskBookManager backed by fileName in basePath.
// An empty fileName selects DefaultTaskBookFile.
func NewTaskBookManager(basePath, fileName string) TaskBookManager {
	if fileName == "" {
		fileName = DefaultTaskBookFile
	}
	return &fileTaskBookManager{
		basePath: basePath,
		fileName: fileName,
		tasks:    make(map[string]*models.Task),
	}
}

func (m *fileTaskBookManager) filePath() string {
	return filepath.Join(m.basePath, m.fileName)
}

func (m *fileTaskBookManager) AddTask(task *models.Task) (string, error) {
	if task == nil {
		return "", fmt.Errorf("adding task: task must not be nil")
	}
	for id, existing := range m.tasks {
		if existing.Equal(task) {
			return "", fmt.Errorf("adding task: same as %s: %w", id, ErrDuplicateTask)
		}
	}
	id := uuid.NewString()
	m.tasks[id] = task
	return id, nil
}

func (m *fileTaskBookManager) ReplaceTask(id string, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("replacing task %s: task must not be nil", id)
	}
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("replacing task %s: %w", id, ErrTaskNotFound)
	}
	for otherID, existing := range m.tasks {
		if otherID != id && existing.Equal(task) {
			return fmt.Errorf("replacing task %s: same as %s: %w", id, otherID, ErrDuplicateTask)
		}
	}
	m.tasks[id] = task
	return nil
}

func (m *fileTaskBookManager) RemoveTask(id string) error {
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("removing task %s: %w", id, ErrTaskNotFound)
	}
	delete(m.tasks, id)
	return nil
}

func (m *fileTaskBookManager) GetTask(id string) (*models.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("getting task %s: %w", id, ErrTaskNotFound)
	}
	return task, nil
}

func (m *fileTaskBookManager) GetAllTasks() ([]StoredTask, error) {
	out := make([]StoredTask, 0, len(m.tasks))
	for id, task := range m.tasks {
		out = append(out, StoredTask{ID: id, Task: task})
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := out[i].Task.Name().String(), out[j].Task.Name().String()
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *fileTaskBookManager) FilterTasks(filter TaskFilter) ([]StoredTask, error) {
	all, err := m.GetAllTasks()
	if err != nil {
		return nil, err
	}

	var result []StoredTask
	for _, st := range all {
		if matchesFilter(st.Task, filter) {
			result = append(result, st)
		}
	}
	return result, nil
}

func matchesFilter(task models.ReadOnlyTask, filter TaskFilter) bool {
	if filter.Kind != "" && task.Kind() != filter.Kind {
		return false
	}
	if len(filter.Priorities) > 0 {
		p, ok := task.Priority()
		if !ok || !containsPriority(filter.Priorities, p) {
			return false
		}
	}
	if filter.Status != "" {
		if s, ok := task.Status(); !ok || s != filter.Status {
			return false
		}
	}
	if len(filter.Tags) > 0 && !hasAllTags(task.Tags().Strings(), filter.Tags) {
		return false
	}
	if len(filter.Keywords) > 0 && !containsAnyKeyword(task.Name().String(), filter.Keywords) {
		return false
	}
	if filter.After != nil || filter.Before != nil {
		dt, ok := task.DateTime()
		if !ok {
			return false
		}
		if filter.After != nil && dt.Time().Before(*filter.After) {
			return false
		}
		if filter.Before != nil && dt.Time().After(*filter.Before) {
			return false
		}
	}
	return true
}

func containsPriority(haystack []models.Priority, needle models.Priority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}

func hasAllTags(taskTags []string, requiredTags []string) bool {
	tagSet := make(map[string]struct{}, len(taskTags))
	for _, t := range taskTags {
		tagSet[t] = struct{}{}
	}
	for _, req := range requiredTags {
		if _, found := tagSet[req]; !found {
			return false
		}
	}
	return true
}

func containsAnyKeyword(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func (m *fileTaskBookManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.tasks = make(map[string]*models.Task)
			return nil
		}
		return fmt.Errorf("loading task book: %w", err)
	}

	var tf TaskBookFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("loading task book: parsing YAML: %w", err)
	}

	tasks := make(map[string]*models.Task, len(tf.Tasks))
	for id, entry := range tf.Tasks {
		task, err := fromEntry(entry)
		if err != nil {
			return fmt.Errorf("loading task book: task %s: %w", id, err)
		}
		tasks[id] = task
	}
	m.tasks = tasks
	return nil
}

func (m *fileTaskBookManager) Save() error {
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving task book: creating directory: %w", err)
	}
	tf := TaskBookFile{
		Version: "1.0",
		Tasks:   make(map[string]TaskEntry, len(m.tasks)),
	}
	for id, task := range m.tasks {
		tf.Tasks[id] = toEntry(task)
	}
	data, err := yaml.Marshal(&tf)
	if err != nil {
		return fmt.Errorf("saving task book: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving task book: writing file: %w", err)
	}
	return nil
}

func toEntry(task models.ReadOnlyTask) TaskEntry {
	e := TaskEntry{
		Kind: task.Kind(),
		Name: task.Name().String(),
		Tags: task.Tags().Strings(),
	}
	if dt, ok := task.DateTime(); ok {
		e.DateTime = dt.Time().Format(time.RFC3339)
	}
	if p, ok := task.Priority(); ok {
		e.Priority = p.String()
	}
	if s, ok := task.Status(); ok {
		e.Status = s.String()
	}
	if p, ok := task.Phone(); ok {
		e.Phone = p.String()
	}
	if em, ok := task.Email(); ok {
		e.Email = em.String()
	}
	if a, ok := task.Address(); ok {
		e.Address = a.String()
	}
	return e
}

// fromEntry rebuilds a task through the model constructors, so a hand-edited
// book with missing or malformed fields is rejected.
func fromEntry(e TaskEntry) (*models.Task, error) {
	name, err := models.ParseName(e.Name)
	if err != nil {
		return nil, err
	}
	tags, err := models.NewUniqueTagList()
	if err != nil {
		return nil, err
	}
	for _, raw := range e.Tags {
		tag, err := models.ParseTag(raw)
		if err != nil {
			return nil, err
		}
		if err := tags.Add(tag); err != nil {
			return nil, err
		}
	}

	switch e.Kind {
	case models.KindContact:
		phone, err := models.ParsePhone(e.Phone)
		if err != nil {
			return nil, err
		}
		email, err := models.ParseEmail(e.Email)
		if err != nil {
			return nil, err
		}
		addr, err := models.ParseAddress(e.Address)
		if err != nil {
			return nil, err
		}
		return models.NewContactTask(name, phone, email, addr, tags)
	case models.KindScheduled:
		dt, err := models.ParseDateTime(e.DateTime)
		if err != nil {
			return nil, err
		}
		p, err := models.ParsePriority(e.Priority)
		if err != nil {
			return nil, err
		}
		var s models.Status
		if e.Status != "" {
			if s, err = models.ParseStatus(e.Status); err != nil {
				return nil, err
			}
		}
		return models.NewScheduledTask(name, dt, p, s, tags)
	}
	return nil, fmt.Errorf("unknown task kind %q", e.Kind)
}
