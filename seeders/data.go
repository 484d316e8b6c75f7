package seeders

import "storefront/cart"

type categorySeed struct {
	Name        string
	Slug        string
	Description string
}

var categorySeeds = []categorySeed{
	{Name: "Shirt", Slug: "shirt", Description: "Stylish shirts for every occasion"},
	{Name: "T-Shirt", Slug: "t-shirt", Description: "Comfortable and trendy t-shirts"},
	{Name: "Bottoms", Slug: "bottoms", Description: "Pants, jeans, and shorts for all styles"},
	{Name: "New Arrivals", Slug: "new-arrivals", Description: "Latest styles and fresh arrivals"},
	{Name: "Top Selling", Slug: "top-selling", Description: "Our most popular and best-selling products"},
}

var (
	black     = cart.Color{Name: "Black", Hex: "#000000"}
	white     = cart.Color{Name: "White", Hex: "#FFFFFF"}
	navy      = cart.Color{Name: "Navy", Hex: "#2C3E50"}
	gray      = cart.Color{Name: "Gray", Hex: "#708090"}
	red       = cart.Color{Name: "Red", Hex: "#DC143C"}
	blue      = cart.Color{Name: "Blue", Hex: "#4169E1"}
	green     = cart.Color{Name: "Green", Hex: "#228B22"}
	khaki     = cart.Color{Name: "Khaki", Hex: "#C3B091"}
	burgundy  = cart.Color{Name: "Burgundy", Hex: "#800020"}
	lightBlue = cart.Color{Name: "Light Blue", Hex: "#6495ED"}
)

type productSeed struct {
	Title         string
	Slug          string
	Description   string
	CurrentPrice  float64
	OriginalPrice float64
	Image         string
	Colors        []cart.Color
	Sizes         []string
	Categories    []string
	Rating        float64
	ReviewCount   int
}

var productSeeds = []productSeed{
	{
		Title:         "Loose Fit Bermuda",
		Slug:          "loose-fit-bermuda-shorts",
		Description:   "Comfortable and relaxed bermuda shorts perfect for summer days. Made with breathable cotton blend fabric for all-day comfort.",
		CurrentPrice:  34.99,
		OriginalPrice: 44.99,
		Image:         "/product-images/loose-fit-bermuda.png",
		Colors:        []cart.Color{khaki, navy, gray, green},
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Categories:    []string{"bottoms"},
		Rating:        4.4,
		ReviewCount:   89,
	},
	{
		Title:         "Skinny Fit Jeans",
		Slug:          "skinny-fit-premium-jeans",
		Description:   "Modern skinny fit jeans crafted from premium denim. Features stretch technology for comfort and a flattering silhouette.",
		CurrentPrice:  79.99,
		OriginalPrice: 99.99,
		Image:         "/product-images/skinny-fit-jeans.png",
		Colors:        []cart.Color{blue, black, lightBlue, navy},
		Sizes:         []string{"XS", "S", "M", "L", "XL"},
		Categories:    []string{"bottoms", "new-arrivals", "top-selling"},
		Rating:        4.7,
		ReviewCount:   156,
	},
	{
		Title:        "Black Striped Tee",
		Slug:         "classic-black-striped-tee",
		Description:  "Timeless black and white striped t-shirt with a modern fit. Perfect for casual wear and easy to style with any outfit.",
		CurrentPrice: 24.99,
		Image:        "/product-images/black-striped-tshirt.png",
		Colors:       []cart.Color{black, white, gray},
		Sizes:        []string{"XS", "S", "M", "L", "XL", "XXL"},
		Categories:   []string{"t-shirt", "top-selling"},
		Rating:       4.3,
		ReviewCount:  134,
	},
	{
		Title:        "Polo Tipping Shirt",
		Slug:         "polo-tipping-details-shirt",
		Description:  "Sophisticated polo shirt with elegant tipping details on collar and cuffs. Made from premium pique cotton for a refined look.",
		CurrentPrice: 49.99,
		Image:        "/product-images/polo-tipping-details.png",
		Colors:       []cart.Color{white, navy, burgundy, green},
		Sizes:        []string{"S", "M", "L", "XL", "XXL"},
		Categories:   []string{"shirt", "new-arrivals"},
		Rating:       4.6,
		ReviewCount:  78,
	},
	{
		Title:         "Gradient Graphic Tee",
		Slug:          "gradient-graphic-tee",
		Description:   "Eye-catching gradient graphic t-shirt with modern artistic design. Soft cotton blend fabric with vibrant color transitions.",
		CurrentPrice:  29.99,
		OriginalPrice: 39.99,
		Image:         "/product-images/gradient-graphic-tshirt.png",
		Colors:        []cart.Color{red, blue, green, black},
		Sizes:         []string{"S", "M", "L", "XL"},
		Categories:    []string{"t-shirt", "new-arrivals"},
		Rating:        4.5,
		ReviewCount:   92,
	},
	{
		Title:         "Vertical Striped Shirt",
		Slug:          "vertical-striped-dress-shirt",
		Description:   "Classic vertical striped dress shirt perfect for professional settings. Wrinkle-resistant fabric with a tailored fit.",
		CurrentPrice:  54.99,
		OriginalPrice: 69.99,
		Image:         "/product-images/vertical-striped-shirt.png",
		Colors:        []cart.Color{blue, black, white, lightBlue},
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Categories:    []string{"shirt", "top-selling"},
		Rating:        4.8,
		ReviewCount:   203,
	},
	{
		Title:        "Courage Graphic Tee",
		Slug:         "courage-graphic-statement-tee",
		Description:  "Bold inspirational graphic tee featuring motivational typography. High-quality print on premium cotton for lasting comfort.",
		CurrentPrice: 27.99,
		Image:        "/product-images/courage-graphic-tshirt.png",
		Colors:       []cart.Color{black, white, gray, navy},
		Sizes:        []string{"XS", "S", "M", "L", "XL", "XXL"},
		Categories:   []string{"t-shirt", "new-arrivals"},
		Rating:       4.2,
		ReviewCount:  67,
	},
	{
		Title:        "Checkered Shirt",
		Slug:         "checkered-pattern-casual-shirt",
		Description:  "Stylish checkered shirt with a relaxed fit. Perfect for casual outings and weekend wear. Made from soft cotton flannel.",
		CurrentPrice: 42.99,
		Image:        "/product-images/checkered-shirt.png",
		Colors:       []cart.Color{blue, red, green, black},
		Sizes:        []string{"S", "M", "L", "XL", "XXL"},
		Categories:   []string{"shirt"},
		Rating:       4.4,
		ReviewCount:  118,
	},
	{
		Title:         "Tape Details Sport Tee",
		Slug:          "tape-details-sport-tee",
		Description:   "Athletic-inspired t-shirt with decorative tape details. Moisture-wicking fabric perfect for active lifestyles and gym wear.",
		CurrentPrice:  32.99,
		OriginalPrice: 42.99,
		Image:         "/product-images/tape-details-tshirt.png",
		Colors:        []cart.Color{black, white, gray, red},
		Sizes:         []string{"S", "M", "L", "XL", "XXL"},
		Categories:    []string{"t-shirt", "top-selling"},
		Rating:        4.6,
		ReviewCount:   145,
	},
	{
		Title:        "Sleeve Stripe Tee",
		Slug:         "sleeve-stripe-contrast-tee",
		Description:  "Modern t-shirt with contrasting sleeve stripes for a contemporary look. Comfortable cotton blend with a relaxed fit.",
		CurrentPrice: 26.99,
		Image:        "/product-images/sleeve-stripe-tshirt.png",
		Colors:       []cart.Color{white, gray, black, navy},
		Sizes:        []string{"XS", "S", "M", "L", "XL"},
		Categories:   []string{"t-shirt", "new-arrivals"},
		Rating:       4.3,
		ReviewCount:  89,
	},
}
