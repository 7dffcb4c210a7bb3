package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateSheet(ctx context.Context, a AnswerSheet) (AnswerSheet, error) {
	if a.Marks == nil {
		a.Marks = map[string]int{}
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.UploadedAt == 0 {
		a.UploadedAt = time.Now().Unix()
	}
	sj, err := json.Marshal(a.StructuredAnswers)
	if err != nil {
		return AnswerSheet{}, err
	}
	zj, err := json.Marshal(a.SummarizedAnswers)
	if err != nil {
		return AnswerSheet{}, err
	}
	mj, _ := json.Marshal(a.Marks)
	_, err = s.db.ExecContext(ctx, `INSERT INTO answer_sheets
		(id,student_id,user_name,exam_code,answer_type,file_path,structured_json,summarized_json,marks_json,total_marks,status,evaluation_method,evaluated_at,evaluated_by,uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		a.ID, a.StudentID, a.UserName, a.ExamCode, a.AnswerType, a.FilePath,
		string(sj), string(zj), string(mj), a.TotalMarks, a.Status,
		a.EvaluationMethod, nullableInt64(a.EvaluatedAt), a.EvaluatedBy, a.UploadedAt)
	if err != nil {
		return AnswerSheet{}, err
	}
	return s.GetSheet(ctx, a.ID)
}

func (s *SQLStore) GetSheet(ctx context.Context, id string) (AnswerSheet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,student_id,user_name,exam_code,answer_type,file_path,structured_json,summarized_json,marks_json,total_marks,status,evaluation_method,evaluated_at,evaluated_by,uploaded_at
		FROM answer_sheets WHERE id=$1`, id)
	a, err := scanSheet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AnswerSheet{}, ErrSheetNotFound
		}
		return AnswerSheet{}, err
	}
	return a, nil
}

func (s *SQLStore) ListSheets(ctx context.Context, opts ListOpts) ([]AnswerSheet, error) {
	q := `SELECT id,student_id,user_name,exam_code,answer_type,file_path,structured_json,summarized_json,marks_json,total_marks,status,evaluation_method,evaluated_at,evaluated_by,uploaded_at
		FROM answer_sheets WHERE 1=1`
	var args []any
	add := func(cond string, v string) {
		if v != "" {
			args = append(args, v)
			q += cond + placeholder(len(args))
		}
	}
	add(` AND student_id=`, opts.StudentID)
	add(` AND exam_code=`, opts.ExamCode)
	add(` AND answer_type=`, opts.AnswerType)
	add(` AND status=`, opts.Status)
	q += ` ORDER BY uploaded_at DESC, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnswerSheet
	for rows.Next() {
		a, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveProgress(ctx context.Context, id string, marks map[string]int) (AnswerSheet, error) {
	a, err := s.GetSheet(ctx, id)
	if err != nil {
		return AnswerSheet{}, err
	}
	if a.Marks == nil {
		a.Marks = map[string]int{}
	}
	for k, v := range marks {
		a.Marks[k] = v
	}
	mj, _ := json.Marshal(a.Marks)
	_, err = s.db.ExecContext(ctx, `UPDATE answer_sheets SET marks_json=$1 WHERE id=$2`, string(mj), id)
	if err != nil {
		return AnswerSheet{}, err
	}
	return s.GetSheet(ctx, id)
}

func (s *SQLStore) SubmitEvaluation(ctx context.Context, id string, marks map[string]int, gradedBy string) (AnswerSheet, error) {
	if _, err := s.GetSheet(ctx, id); err != nil {
		return AnswerSheet{}, err
	}
	total := 0
	for _, v := range marks {
		total += v
	}
	mj, _ := json.Marshal(marks)
	_, err := s.db.ExecContext(ctx, `UPDATE answer_sheets
		SET marks_json=$1, total_marks=$2, status=$3, evaluation_method=$4, evaluated_at=$5, evaluated_by=$6
		WHERE id=$7`,
		string(mj), total, StatusEvaluated, MethodManual, time.Now().Unix(), gradedBy, id)
	if err != nil {
		return AnswerSheet{}, err
	}
	return s.GetSheet(ctx, id)
}

func (s *SQLStore) UpdateSheet(ctx context.Context, a AnswerSheet) error {
	mj, _ := json.Marshal(a.Marks)
	res, err := s.db.ExecContext(ctx, `UPDATE answer_sheets
		SET marks_json=$1, total_marks=$2, status=$3, evaluation_method=$4, evaluated_at=$5, evaluated_by=$6
		WHERE id=$7`,
		string(mj), a.TotalMarks, a.Status, a.EvaluationMethod, nullableInt64(a.EvaluatedAt), a.EvaluatedBy, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func (s *SQLStore) UpsertKey(ctx context.Context, k AnswerKey) (AnswerKey, error) {
	if k.AnswerType == "" {
		k.AnswerType = TypeObjective
	}
	now := time.Now().Unix()
	aj, err := json.Marshal(k.Answers)
	if err != nil {
		return AnswerKey{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO answer_keys (exam_code,exam_name,answer_type,answer_key_json,created_by,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (exam_code) DO UPDATE SET exam_name=EXCLUDED.exam_name, answer_key_json=EXCLUDED.answer_key_json, updated_at=EXCLUDED.updated_at`,
		k.ExamCode, k.ExamName, k.AnswerType, string(aj), k.CreatedBy, now, now)
	if err != nil {
		return AnswerKey{}, err
	}
	return s.GetKey(ctx, k.ExamCode)
}

func (s *SQLStore) GetKey(ctx context.Context, examCode string) (AnswerKey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT exam_code,exam_name,answer_type,answer_key_json,created_by,created_at,updated_at
		FROM answer_keys WHERE exam_code=$1`, examCode)
	var k AnswerKey
	var aj string
	var createdBy sql.NullString
	if err := row.Scan(&k.ExamCode, &k.ExamName, &k.AnswerType, &aj, &createdBy, &k.CreatedAt, &k.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AnswerKey{}, ErrKeyNotFound
		}
		return AnswerKey{}, err
	}
	k.CreatedBy = createdBy.String
	if err := json.Unmarshal([]byte(aj), &k.Answers); err != nil {
		return AnswerKey{}, err
	}
	return k, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSheet(r rowScanner) (AnswerSheet, error) {
	var a AnswerSheet
	var sj, zj, mj string
	var method, evalBy sql.NullString
	var evalAt sql.NullInt64
	if err := r.Scan(&a.ID, &a.StudentID, &a.UserName, &a.ExamCode, &a.AnswerType, &a.FilePath,
		&sj, &zj, &mj, &a.TotalMarks, &a.Status, &method, &evalAt, &evalBy, &a.UploadedAt); err != nil {
		return AnswerSheet{}, err
	}
	a.EvaluationMethod = method.String
	a.EvaluatedAt = evalAt.Int64
	a.EvaluatedBy = evalBy.String
	if err := json.Unmarshal([]byte(sj), &a.StructuredAnswers); err != nil {
		return AnswerSheet{}, err
	}
	if err := json.Unmarshal([]byte(zj), &a.SummarizedAnswers); err != nil {
		return AnswerSheet{}, err
	}
	if err := json.Unmarshal([]byte(mj), &a.Marks); err != nil {
		a.Marks = map[string]int{}
	}
	return a, nil
}

func nullableInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// placeholder returns the positional parameter for the n-th argument. Both the
// pgx stdlib driver and modernc sqlite accept $N.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
