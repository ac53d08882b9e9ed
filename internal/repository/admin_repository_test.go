package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestAdminRepository_Totals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(12))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `workouts`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(34))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `connections`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(8))

	users, workouts, connections, err := repo.Totals()
	require.NoError(t, err)
	require.Equal(t, int64(12), users)
	require.Equal(t, int64(34), workouts)
	require.Equal(t, int64(8), connections)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_UsersByGym(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT gym AS value, COUNT\\(\\*\\) AS count FROM `users` GROUP BY `gym` ORDER BY count DESC").
		WillReturnRows(sqlmock.NewRows([]string{"value", "count"}).
			AddRow("Iron Temple", 7).
			AddRow("City Gym", 3))

	groups, err := repo.UsersByGym(5)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Iron Temple", groups[0].Value)
	require.Equal(t, int64(7), groups[0].Count)

	require.NoError(t, mock.ExpectationsWereMet())
}
