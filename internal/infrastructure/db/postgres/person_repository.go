package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

const (
	tablePerson = "person"

	colPersonID    = "id"
	colName        = "name"
	colUsername    = "username"
	colDateOfBirth = "date_of_birth"
	colPassword    = "password"
	colRole        = "role"
)

var personColumns = []any{colPersonID, colName, colUsername, colDateOfBirth, colPassword, colRole}

// PersonRepository implements ports.PersonRepository using PostgreSQL.
type PersonRepository struct {
	pool *pgxpool.Pool
}

func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

func (r *PersonRepository) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Person, error) {
	query, args, err := listPeopleQuery(opts)
	if err != nil {
		return nil, err
	}
	return r.queryPeople(ctx, query, args)
}

func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*domain.Person, error) {
	return r.findOne(ctx, goqu.C(colPersonID).Eq(id))
}

func (r *PersonRepository) FindByUsername(ctx context.Context, username string) (*domain.Person, error) {
	return r.findOne(ctx, goqu.C(colUsername).Eq(username))
}

func (r *PersonRepository) Create(ctx context.Context, p *domain.Person) error {
	query, args, err := dialect.Insert(tablePerson).
		Prepared(true).
		Rows(personRecord(p)).
		Returning(colPersonID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build person insert: %w", err)
	}

	err = conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&p.ID)
	if hasCode(err, codeUniqueViolation) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *PersonRepository) Replace(ctx context.Context, p *domain.Person) error {
	query, args, err := dialect.Update(tablePerson).
		Prepared(true).
		Set(personRecord(p)).
		Where(goqu.C(colPersonID).Eq(p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build person update: %w", err)
	}

	tag, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if hasCode(err, codeUniqueViolation) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update person %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(tablePerson).
		Prepared(true).
		Where(goqu.C(colPersonID).Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build person delete: %w", err)
	}

	_, err = conn(ctx, r.pool).Exec(ctx, query, args...)
	if hasCode(err, codeForeignKeyViolation) {
		return domain.ErrPersonHasBooks
	}
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	return nil
}

func (r *PersonRepository) SearchByName(ctx context.Context, substring string) ([]*domain.Person, error) {
	query, args, err := selectPeople().
		Where(goqu.C(colName).ILike(containsPattern(substring))).
		Order(goqu.C(colPersonID).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build person search: %w", err)
	}
	return r.queryPeople(ctx, query, args)
}

func (r *PersonRepository) findOne(ctx context.Context, where goqu.Expression) (*domain.Person, error) {
	query, args, err := selectPeople().Where(where).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build person query: %w", err)
	}

	p, err := scanPerson(conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	return p, nil
}

func (r *PersonRepository) queryPeople(ctx context.Context, query string, args []any) ([]*domain.Person, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	people, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Person, error) {
		return scanPerson(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan people: %w", err)
	}
	return people, nil
}

func selectPeople() *goqu.SelectDataset {
	return dialect.From(tablePerson).Prepared(true).Select(personColumns...)
}

// listPeopleQuery sorts by date of birth; people without one come last.
func listPeopleQuery(opts ports.ListOptions) (string, []any, error) {
	ds := selectPeople()
	if opts.Sorted {
		ds = ds.Order(goqu.C(colDateOfBirth).Asc().NullsLast(), goqu.C(colPersonID).Asc())
	} else {
		ds = ds.Order(goqu.C(colPersonID).Asc())
	}
	if opts.Page != nil {
		ds = ds.Limit(uint(opts.Page.PageSize)).Offset(uint(opts.Page.Offset()))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build person list: %w", err)
	}
	return query, args, nil
}

func personRecord(p *domain.Person) goqu.Record {
	return goqu.Record{
		colName:        p.Name,
		colUsername:    p.Username,
		colDateOfBirth: nullable(p.DateOfBirth),
		colPassword:    p.PasswordHash,
		colRole:        string(p.Role),
	}
}

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var (
		p    domain.Person
		role string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Username, &p.DateOfBirth, &p.PasswordHash, &role); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)
	return &p, nil
}
