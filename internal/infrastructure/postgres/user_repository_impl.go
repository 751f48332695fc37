package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deliverymx/user-service/internal/domain/entity"
	"github.com/deliverymx/user-service/internal/domain/repository"
	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

// UserRepository persists the user aggregate in two tables: users (one
// row per account, role-specific columns flattened) and user_addresses
// (one row per address, ordered by position). Save is a full-state
// upsert; the partial unique index on active emails backs the
// create-time duplicate check at the storage level.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, name, last_name, email, phone, username, password_hash, role, is_active,
	loyalty_points, preferred_payment_method,
	vehicle_type, license_number, rating, completed_deliveries, delivery_status, profile_picture_url,
	restaurant_id, restaurant_role, permissions`

func (r *UserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	row := newUserRow(u)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			loyalty_points = EXCLUDED.loyalty_points,
			preferred_payment_method = EXCLUDED.preferred_payment_method,
			vehicle_type = EXCLUDED.vehicle_type,
			license_number = EXCLUDED.license_number,
			rating = EXCLUDED.rating,
			completed_deliveries = EXCLUDED.completed_deliveries,
			delivery_status = EXCLUDED.delivery_status,
			profile_picture_url = EXCLUDED.profile_picture_url,
			restaurant_id = EXCLUDED.restaurant_id,
			restaurant_role = EXCLUDED.restaurant_role,
			permissions = EXCLUDED.permissions,
			updated_at = now()
	`, row.id, row.name, row.lastName, row.email, row.phone, row.username, row.passwordHash, row.role, row.isActive,
		row.loyaltyPoints, row.paymentMethod,
		row.vehicleType, row.licenseNumber, row.rating, row.completedDeliveries, row.deliveryStatus, row.profilePictureURL,
		row.restaurantID, row.restaurantRole, row.permissions)
	if err != nil {
		return nil, translateSaveErr(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_addresses WHERE user_id = $1`, row.id); err != nil {
		return nil, err
	}
	for i, a := range u.Addresses() {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_addresses (user_id, position, street, number, neighborhood, city, state, zip_code, country, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, row.id, i, a.Street(), a.Number(), a.Neighborhood(), a.City(), a.State(), a.ZipCode(), a.Country(), a.AdditionalInfo())
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (entity.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (entity.User, error) {
	// Case-insensitive, matching the unique index on lower(email).
	// Deactivated rows may share an email with one active row; the
	// active one wins, then the most recently created.
	return r.findOne(ctx, `WHERE lower(email) = lower($1) ORDER BY is_active DESC, created_at DESC LIMIT 1`, email)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userRows []userRow
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		userRows = append(userRows, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]entity.User, 0, len(userRows))
	for _, ur := range userRows {
		addrs, err := r.loadAddresses(ctx, ur.id)
		if err != nil {
			return nil, err
		}
		u, err := hydrate(ur, addrs)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	ur, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	addrs, err := r.loadAddresses(ctx, ur.id)
	if err != nil {
		return nil, err
	}
	return hydrate(ur, addrs)
}

func (r *UserRepository) loadAddresses(ctx context.Context, userID string) ([]valueobject.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT street, number, neighborhood, city, state, zip_code, country, additional_info
		FROM user_addresses
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []valueobject.Address
	for rows.Next() {
		var street, number, neighborhood, city, state, zipCode, country, additionalInfo string
		if err := rows.Scan(&street, &number, &neighborhood, &city, &state, &zipCode, &country, &additionalInfo); err != nil {
			return nil, err
		}
		addr, err := valueobject.NewAddress(street, number, neighborhood, city, state, zipCode, country, additionalInfo)
		if err != nil {
			return nil, fmt.Errorf("stored address for user %s is invalid: %w", userID, err)
		}
		addrs = append(addrs, addr)
	}
	return addrs, rows.Err()
}

// translateSaveErr turns a unique violation on the active-email index
// into the port's duplicate sentinel; every other error passes through.
func translateSaveErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_active_email_uniq" {
		return repository.ErrDuplicateEmail
	}
	return err
}

// userRow is the flat storage shape of a user aggregate.
type userRow struct {
	id, name, lastName, email, phone, username, passwordHash, role string
	isActive                                                       bool

	loyaltyPoints int
	paymentMethod string

	vehicleType, licenseNumber, deliveryStatus, profilePictureURL string
	rating                                                        float64
	completedDeliveries                                           int

	restaurantID, restaurantRole string
	permissions                  []string
}

func newUserRow(u entity.User) userRow {
	row := userRow{
		id:           u.ID(),
		name:         u.FirstName(),
		lastName:     u.LastName(),
		email:        u.Contact().Email(),
		phone:        u.Contact().Phone(),
		username:     u.Credentials().Username(),
		passwordHash: u.Credentials().PasswordHash(),
		role:         string(u.Role()),
		isActive:     u.IsActive(),
		permissions:  []string{},
	}
	switch v := u.(type) {
	case *entity.Customer:
		row.loyaltyPoints = v.LoyaltyPoints()
		row.paymentMethod = v.PreferredPaymentMethod()
	case *entity.DeliveryPerson:
		row.vehicleType = string(v.VehicleType())
		row.licenseNumber = v.LicenseNumber()
		row.rating = v.Rating()
		row.completedDeliveries = v.CompletedDeliveries()
		row.deliveryStatus = string(v.Status())
		row.profilePictureURL = v.ProfilePictureURL()
	case *entity.RestaurantUser:
		row.restaurantID = v.RestaurantID()
		row.restaurantRole = string(v.RestaurantRole())
		row.permissions = v.Permissions()
	}
	return row
}

func scanUserRow(row pgx.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(&ur.id, &ur.name, &ur.lastName, &ur.email, &ur.phone, &ur.username, &ur.passwordHash, &ur.role, &ur.isActive,
		&ur.loyaltyPoints, &ur.paymentMethod,
		&ur.vehicleType, &ur.licenseNumber, &ur.rating, &ur.completedDeliveries, &ur.deliveryStatus, &ur.profilePictureURL,
		&ur.restaurantID, &ur.restaurantRole, &ur.permissions)
	return ur, err
}

// hydrate rebuilds the aggregate the same way it was first created:
// role factory, then mutators, then the active flag. Stored rows were
// produced by valid aggregates, so invariant failures here mean the
// data was corrupted outside this service.
func hydrate(ur userRow, addrs []valueobject.Address) (entity.User, error) {
	contact, err := valueobject.NewContactInfo(ur.email, ur.phone)
	if err != nil {
		return nil, fmt.Errorf("stored contact for user %s is invalid: %w", ur.id, err)
	}
	credentials, err := valueobject.CredentialsFromHash(ur.username, ur.passwordHash)
	if err != nil {
		return nil, fmt.Errorf("stored credentials for user %s are invalid: %w", ur.id, err)
	}

	var user entity.User
	switch entity.Role(ur.role) {
	case entity.RoleCustomer:
		c, err := entity.NewCustomer(ur.id, ur.name, ur.lastName, contact, credentials)
		if err != nil {
			return nil, err
		}
		if err := c.EarnLoyaltyPoints(ur.loyaltyPoints); err != nil {
			return nil, err
		}
		if ur.paymentMethod != "" {
			if err := c.SetPreferredPaymentMethod(ur.paymentMethod); err != nil {
				return nil, err
			}
		}
		user = c
	case entity.RoleDeliveryPerson:
		d, err := entity.NewDeliveryPerson(ur.id, ur.name, ur.lastName, contact, credentials)
		if err != nil {
			return nil, err
		}
		if ur.vehicleType != "" {
			if err := d.SetVehicleInformation(entity.VehicleType(ur.vehicleType), ur.licenseNumber); err != nil {
				return nil, err
			}
		}
		d.RestoreDeliveryStats(ur.rating, ur.completedDeliveries)
		if ur.deliveryStatus != "" {
			if err := d.UpdateStatus(entity.DeliveryStatus(ur.deliveryStatus)); err != nil {
				return nil, err
			}
		}
		if ur.profilePictureURL != "" {
			if err := d.SetProfilePicture(ur.profilePictureURL); err != nil {
				return nil, err
			}
		}
		user = d
	case entity.RoleRestaurantUser:
		ru, err := entity.NewRestaurantUser(ur.id, ur.name, ur.lastName, contact, credentials)
		if err != nil {
			return nil, err
		}
		if ur.restaurantID != "" {
			if err := ru.AssignToRestaurant(ur.restaurantID, entity.RestaurantRole(ur.restaurantRole)); err != nil {
				return nil, err
			}
		}
		ru.RestorePermissions(ur.permissions)
		user = ru
	default:
		return nil, fmt.Errorf("stored role %q for user %s is unknown", ur.role, ur.id)
	}

	for _, addr := range addrs {
		if err := user.AddAddress(addr); err != nil {
			return nil, fmt.Errorf("stored addresses for user %s violate invariants: %w", ur.id, err)
		}
	}
	if !ur.isActive {
		if err := user.Deactivate(); err != nil {
			return nil, err
		}
	}
	return user, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
