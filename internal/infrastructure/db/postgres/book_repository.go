package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

const (
	tableBook = "book"

	colBookID    = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colYear      = "year_of_prod"
	colTakenAt   = "taken_at"
	colUpdatedAt = "updated_at"
	colUpdatedBy = "updated_by"
	colOwnerID   = "owner_id"
)

var bookColumns = []any{colBookID, colTitle, colAuthor, colYear, colTakenAt, colUpdatedAt, colUpdatedBy, colOwnerID}

// BookRepository implements ports.BookRepository using PostgreSQL.
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Book, error) {
	query, args, err := listBooksQuery(opts)
	if err != nil {
		return nil, err
	}
	return r.queryBooks(ctx, query, args)
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	query, args, err := selectBooks().Where(goqu.C(colBookID).Eq(id)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}

	b, err := scanBook(conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	query, args, err := dialect.Insert(tableBook).
		Prepared(true).
		Rows(bookRecord(b)).
		Returning(colBookID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build book insert: %w", err)
	}

	if err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *BookRepository) Replace(ctx context.Context, b *domain.Book) error {
	query, args, err := dialect.Update(tableBook).
		Prepared(true).
		Set(bookRecord(b)).
		Where(goqu.C(colBookID).Eq(b.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build book update: %w", err)
	}

	tag, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(tableBook).
		Prepared(true).
		Where(goqu.C(colBookID).Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build book delete: %w", err)
	}

	if _, err := conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

func (r *BookRepository) SetLoan(ctx context.Context, id int64, ownerID *int64, takenAt *time.Time) error {
	query, args, err := setLoanQuery(id, ownerID, takenAt)
	if err != nil {
		return err
	}

	tag, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set loan on book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) SearchByTitle(ctx context.Context, substring string) ([]*domain.Book, error) {
	query, args, err := searchBooksQuery(substring)
	if err != nil {
		return nil, err
	}
	return r.queryBooks(ctx, query, args)
}

func (r *BookRepository) ListByOwner(ctx context.Context, personID int64) ([]*domain.Book, error) {
	query, args, err := selectBooks().
		Where(goqu.C(colOwnerID).Eq(personID)).
		Order(goqu.C(colBookID).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build owner query: %w", err)
	}
	return r.queryBooks(ctx, query, args)
}

func (r *BookRepository) queryBooks(ctx context.Context, query string, args []any) ([]*domain.Book, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return books, nil
}

func selectBooks() *goqu.SelectDataset {
	return dialect.From(tableBook).Prepared(true).Select(bookColumns...)
}

func listBooksQuery(opts ports.ListOptions) (string, []any, error) {
	ds := selectBooks()
	if opts.Sorted {
		ds = ds.Order(goqu.C(colYear).Asc(), goqu.C(colBookID).Asc())
	} else {
		ds = ds.Order(goqu.C(colBookID).Asc())
	}
	if opts.Page != nil {
		ds = ds.Limit(uint(opts.Page.PageSize)).Offset(uint(opts.Page.Offset()))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build book list: %w", err)
	}
	return query, args, nil
}

func searchBooksQuery(substring string) (string, []any, error) {
	query, args, err := selectBooks().
		Where(goqu.C(colTitle).ILike(containsPattern(substring))).
		Order(goqu.C(colBookID).Asc()).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build book search: %w", err)
	}
	return query, args, nil
}

func setLoanQuery(id int64, ownerID *int64, takenAt *time.Time) (string, []any, error) {
	query, args, err := dialect.Update(tableBook).
		Prepared(true).
		Set(goqu.Record{
			colOwnerID: nullable(ownerID),
			colTakenAt: nullable(takenAt),
		}).
		Where(goqu.C(colBookID).Eq(id)).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build loan update: %w", err)
	}
	return query, args, nil
}

func bookRecord(b *domain.Book) goqu.Record {
	return goqu.Record{
		colTitle:     b.Title,
		colAuthor:    b.Author,
		colYear:      b.YearOfProduction,
		colTakenAt:   nullable(b.TakenAt),
		colUpdatedAt: nullable(b.UpdatedAt),
		colUpdatedBy: nullString(b.UpdatedBy),
		colOwnerID:   nullable(b.OwnerID),
	}
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var (
		b         domain.Book
		updatedBy *string
	)
	if err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.YearOfProduction,
		&b.TakenAt,
		&b.UpdatedAt,
		&updatedBy,
		&b.OwnerID,
	); err != nil {
		return nil, err
	}
	if updatedBy != nil {
		b.UpdatedBy = *updatedBy
	}
	return &b, nil
}
