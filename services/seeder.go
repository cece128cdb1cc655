package services

import (
	"context"
	"fmt"

	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/models"
	"heritage-backend/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeder populates an empty database with the starter catalog, an admin
// account and a few demo customers. It only runs when both the types and
// users tables are empty, so restarts are idempotent.
type Seeder struct {
	types     repository.TypeRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	addresses repository.AddressRepository

	enabled      bool
	skipProducts bool
}

func NewSeeder(cfg *config.Config, types repository.TypeRepository, products repository.ProductRepository, users repository.UserRepository, addresses repository.AddressRepository) *Seeder {
	return &Seeder{
		types:        types,
		products:     products,
		users:        users,
		addresses:    addresses,
		enabled:      cfg.SeedingEnabled,
		skipProducts: cfg.SkipProducts,
	}
}

const seedPassword = "123456"

const placeholderImage = "/uploads/products/placeholder.jpg"

var seedTypeNames = []string{
	"Áo dài truyền thống",
	"Trang sức bạc",
	"Phụ kiện thổ cẩm",
	"Quần áo lụa",
	"Gốm sứ truyền thống",
	"Đồ gỗ thủ công",
	"Tranh dân gian",
	"Tranh sơn mài",
	"Đồ thêu",
	"Mũ nón lá",
	"Giày dép thủ công",
}

type seedProduct struct {
	name        string
	description string
	price       int64
	typeName    string
}

var seedProducts = []seedProduct{
	{"Áo dài lụa tơ tằm Hà Nội", "Áo dài truyền thống được may từ lụa tơ tằm cao cấp với họa tiết hoa sen tinh tế", 2500000, "Áo dài truyền thống"},
	{"Áo dài gấm Huế", "Áo dài hoàng gia phong cách Huế với chất liệu gấm thêu rồng phượng", 3200000, "Áo dài truyền thống"},
	{"Dây chuyền bạc hình rồng", "Dây chuyền bạc ta thủ công với thiết kế rồng bay, biểu tượng quyền lực", 850000, "Trang sức bạc"},
	{"Nhẫn bạc khắc chữ Hán", "Nhẫn bạc với chữ Hán cổ, mang ý nghĩa phong thủy tốt lành", 420000, "Trang sức bạc"},
	{"Túi xách thổ cẩm Sapa", "Túi xách thổ cẩm được dệt thủ công bởi người H'Mông Sapa", 450000, "Phụ kiện thổ cẩm"},
	{"Khăn quàng cổ thổ cẩm", "Khăn quàng cổ với họa tiết thổ cẩm truyền thống của người Thái", 320000, "Phụ kiện thổ cẩm"},
	{"Váy lụa thêu hoa", "Váy lụa nữ thêu tay họa tiết hoa cúc, phong cách thanh lịch", 1600000, "Quần áo lụa"},
	{"Áo sơ mi lụa nam", "Áo sơ mi lụa tự nhiên cho nam giới, thoáng mát và sang trọng", 1200000, "Quần áo lụa"},
	{"Bình hoa gốm Chu Đậu", "Bình hoa gốm Chu Đậu với men xanh ngọc đặc trưng", 1200000, "Gốm sứ truyền thống"},
	{"Tách trà gốm Bát Tràng", "Bộ tách trà gốm Bát Tràng họa tiết hoa sen", 450000, "Gốm sứ truyền thống"},
	{"Tượng Phật gỗ mun", "Tượng Phật Di Lặc bằng gỗ mun quý, chạm khắc tinh xảo", 2800000, "Đồ gỗ thủ công"},
	{"Khay trà gỗ hương", "Khay trà bằng gỗ hương thơm, thiết kế cổ điển", 850000, "Đồ gỗ thủ công"},
	{"Tranh Đông Hồ cá chép", "Tranh Đông Hồ truyền thống với họa tiết cá chép hoa sen", 320000, "Tranh dân gian"},
	{"Tranh Hàng Trống gà trống", "Tranh Hàng Trống với hình ảnh gà trống báo hiểu", 280000, "Tranh dân gian"},
	{"Tranh sơn mài \"Người Gánh Quê\" – 15×15 cm", "Tác phẩm thể hiện hình ảnh người phụ nữ lao động, chế tác thủ công tại làng nghề Hạ Thái, Thường Tín, Hà Nội", 250000, "Tranh sơn mài"},
	{"Tranh sơn mài \"Nắng Trên Phố Cổ\" – 15×15 cm", "Phông nền vàng ánh kim với mái ngói đỏ nâu, kỹ thuật sơn mài truyền thống Hạ Thái", 250000, "Tranh sơn mài"},
	{"Tranh \"Tháp Rùa – Hồ Gươm trong sắc thu\"", "Tháp Rùa soi bóng trên mặt nước Hồ Gươm, sơn mài vẽ tay phủ bạc, 25 x 25 cm", 350000, "Tranh sơn mài"},
	{"Tranh \"Chùa Một Cột – Đóa Sen giữa lòng Thủ đô\"", "Chùa Một Cột trên nền vàng đồng, chất liệu sơn ta, bạc quỳ, vỏ trứng, 25 x 25 cm", 350000, "Tranh sơn mài"},
	{"Tranh \"Văn Miếu – Quốc Tử Giám\"", "Khuê Văn Các hòa cùng mảng xanh cây cổ thụ, sơn mài phủ bóng thủ công, 25 x 25 cm", 350000, "Tranh sơn mài"},
}

type seedUser struct {
	username  string
	email     string
	firstName string
	lastName  string
	phone     string
}

var seedCustomers = []seedUser{
	{"customer1", "nguyen.van.a@gmail.com", "Nguyễn", "Văn A", "0987654321"},
	{"customer2", "tran.thi.b@gmail.com", "Trần", "Thị B", "0976543210"},
	{"customer3", "le.van.c@gmail.com", "Lê", "Văn C", "0965432109"},
	{"customer4", "pham.thi.d@gmail.com", "Phạm", "Thị D", "0954321098"},
}

// Run seeds the database when enabled and empty.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.enabled {
		logger.Log.Info("Data seeding is disabled, skipping")
		return nil
	}

	typeCount, err := s.types.Count(ctx)
	if err != nil {
		return err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if typeCount > 0 || userCount > 0 {
		logger.Log.Info("Database already contains data, skipping seeding")
		return nil
	}

	logger.Log.Info("Starting database seeding")
	if err := s.seedTypes(ctx); err != nil {
		return err
	}
	if s.skipProducts {
		logger.Log.Info("Product seeding is disabled, skipping products")
	} else if err := s.seedProducts(ctx); err != nil {
		return err
	}
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	logger.Log.Info("Database seeding completed")
	return nil
}

// Recreate wipes the catalog and reseeds it from the starter data. User
// accounts are left untouched; order items carry their own product snapshots
// so existing orders survive the wipe.
func (s *Seeder) Recreate(ctx context.Context) error {
	logger.Log.Warn("Recreating catalog data")
	if err := s.products.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}
	if err := s.types.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clearing types: %w", err)
	}
	if err := s.seedTypes(ctx); err != nil {
		return err
	}
	if err := s.seedProducts(ctx); err != nil {
		return err
	}
	logger.Log.Info("Catalog recreated")
	return nil
}

func (s *Seeder) seedTypes(ctx context.Context) error {
	for _, name := range seedTypeNames {
		if err := s.types.Create(ctx, &models.Type{Name: name}); err != nil {
			return fmt.Errorf("seeding type %q: %w", name, err)
		}
	}
	logger.Log.Info("Seeded product types", zap.Int("count", len(seedTypeNames)))
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return err
	}
	typesByName := make(map[string]uint, len(types))
	for _, t := range types {
		typesByName[t.Name] = t.ID
	}

	for _, sp := range seedProducts {
		typeID, ok := typesByName[sp.typeName]
		if !ok {
			continue
		}
		id := typeID
		product := &models.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       sp.price,
			PictureURL:  placeholderImage,
			Quantity:    10,
			Status:      models.ProductActive,
			TypeID:      &id,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return fmt.Errorf("seeding product %q: %w", sp.name, err)
		}
	}
	logger.Log.Info("Seeded products", zap.Int("count", len(seedProducts)))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:  "admin",
		Email:     "admin@sonmai.com",
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "System",
		Phone:     "0123456789",
		Role:      models.RoleAdmin,
		Enabled:   true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	for _, su := range seedCustomers {
		user := &models.User{
			Username:  su.username,
			Email:     su.email,
			Password:  string(hash),
			FirstName: su.firstName,
			LastName:  su.lastName,
			Phone:     su.phone,
			Role:      models.RoleUser,
			Enabled:   true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding user %q: %w", su.username, err)
		}
		address := &models.Address{
			UserID:        user.ID,
			RecipientName: user.FullName(),
			Phone:         user.Phone,
			Street:        "123 Đường " + user.FirstName,
			Ward:          "Phường Trung Tâm",
			District:      "Quận 1",
			Province:      "TP. Hồ Chí Minh",
		}
		if err := s.addresses.Create(ctx, address); err != nil {
			return fmt.Errorf("seeding address for %q: %w", su.username, err)
		}
	}
	logger.Log.Info("Seeded users", zap.Int("count", len(seedCustomers)+1))
	return nil
}
