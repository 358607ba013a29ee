package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeedSource serves the built-in product list.
type SeedSource struct{}

func (SeedSource) Load(ctx context.Context) ([]Product, error) { return Seed(), nil }

func (SeedSource) Ping(ctx context.Context) error { return nil }

// NewSeeded returns the built-in catalog. The seed is known-valid.
func NewSeeded() *Catalog {
	c, err := New(Seed())
	if err != nil {
		panic(err)
	}
	return c
}

func Seed() []Product {
	return []Product{
		{
			ID:               "1",
			Name:             "Smartphone",
			ShortDescription: "High-end smartphone with great camera",
			LongDescription:  "Meet the smartphone that redefines connectivity. With its advanced camera, powerful processor, and vibrant display, it seamlessly bridges work and leisure. Stay connected with cutting-edge 5G technology and enjoy a sleek design that fits perfectly in your hand.",
			Price:            decimal.RequireFromString("699.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/smartphone.jpg",
			Rating:           4.5,
		},
		{
			ID:               "2",
			Name:             "Laptop",
			ShortDescription: "Powerful laptop for work and gaming",
			LongDescription:  "Experience unparalleled performance and portability with this state-of-the-art laptop. Whether you're a professional, student, or creative, this device is engineered to meet your demands. Enjoy ultra-fast processing, stunning graphics, and a lightweight design that lets you work and play wherever life takes you.",
			Price:            decimal.RequireFromString("1299.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/laptop.jpg",
			Rating:           4,
		},
		{
			ID:               "3",
			Name:             "Headphones",
			ShortDescription: "Noise-cancelling wireless headphones",
			LongDescription:  "Dive into a world of immersive sound with these premium headphones. Whether it’s music, calls, or gaming, they deliver crystal-clear audio and noise cancellation. Designed for comfort and durability, they are your perfect companion for long listening sessions.",
			Price:            decimal.RequireFromString("199.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/headphones.jpg",
			Rating:           3,
		},
		{
			ID:               "4",
			Name:             "Watch",
			ShortDescription: "A stylish and feature-packed timepiece that combines functionality with elegance.",
			LongDescription:  "Elevate your daily routine with this multi-functional smartwatch. Designed to complement your lifestyle, it offers fitness tracking, notifications, and customizable watch faces. Crafted with precision and style, it’s the perfect blend of technology and timeless design.",
			Price:            decimal.RequireFromString("249.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/watch.jpg",
			Rating:           2.5,
		},
		{
			ID:               "5",
			Name:             "Tablet",
			ShortDescription: "Versatile tablet for creativity and productivity",
			LongDescription:  "Unleash your creativity with this powerful tablet that adapts to your needs. Perfect for digital art, note-taking, and entertainment, it features a stunning display and responsive touch interface. Whether you're sketching, reading, or streaming, this tablet delivers exceptional performance in a sleek, portable design.",
			Price:            decimal.RequireFromString("449.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/tablet.jpg",
			Rating:           4.2,
		},
		{
			ID:               "6",
			Name:             "Gaming Console",
			ShortDescription: "Next-generation gaming console with 4K support",
			LongDescription:  "Step into the future of gaming with this cutting-edge console. Experience breathtaking 4K graphics, lightning-fast load times, and an extensive library of games. Built for both casual and hardcore gamers, it delivers immersive gameplay and entertainment that brings your living room to life.",
			Price:            decimal.RequireFromString("499.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/gaming-console.jpg",
			Rating:           4.8,
		},
		{
			ID:               "7",
			Name:             "Wireless Speaker",
			ShortDescription: "Portable Bluetooth speaker with rich sound",
			LongDescription:  "Transform any space into your personal concert hall with this premium wireless speaker. Featuring deep bass, crystal-clear highs, and 360-degree sound, it delivers exceptional audio quality. Waterproof and portable, it's perfect for outdoor adventures, parties, or relaxing at home.",
			Price:            decimal.RequireFromString("89.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/wireless-speaker.jpg",
			Rating:           4.3,
		},
		{
			ID:               "8",
			Name:             "Fitness Tracker",
			ShortDescription: "Advanced fitness tracker with health monitoring",
			LongDescription:  "Take control of your health and fitness journey with this comprehensive tracker. Monitor your heart rate, sleep patterns, steps, and workouts with precision. Featuring a sleek design and long battery life, it seamlessly integrates into your daily routine while helping you achieve your wellness goals.",
			Price:            decimal.RequireFromString("129.99"),
			ImageURL:         "http://127.0.0.1:3000/assets/fitness-tracker.jpg",
			Rating:           4.1,
		},
	}
}
