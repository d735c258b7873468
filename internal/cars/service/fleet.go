package service

import "carrental/pkg/model"

// sampleFleet is inserted by Seed into an empty catalog.
func sampleFleet() []*model.Car {
	car := func(name, brand, modelName, category, fuel, transmission string, price float64, seats, doors, inventory int, image, description string, features ...string) *model.Car {
		return &model.Car{
			Name:         name,
			Brand:        brand,
			Model:        modelName,
			Year:         2023,
			Price:        price,
			Category:     category,
			Fuel:         fuel,
			Transmission: transmission,
			Seats:        seats,
			Doors:        doors,
			Image:        "/images/" + image,
			Features:     features,
			Description:  description,
			Available:    true,
			Inventory:    inventory,
		}
	}

	return []*model.Car{
		car("Maruti Suzuki Dzire", "Maruti Suzuki", "Dzire", "Sedan", "Hybrid", "Automatic", 3750, 5, 4, 3, "swift.jpeg",
			"Comfortable sedan with excellent fuel efficiency", "AC", "GPS", "Bluetooth", "USB"),
		car("Mahindra XUV700", "Mahindra", "XUV700", "SUV", "Petrol", "Automatic", 7400, 7, 5, 2, "xuv.avif",
			"Spacious family SUV with premium features", "AC", "GPS", "Leather Seats", "Sunroof"),
		car("Tata Nexon EV", "Tata", "Nexon EV", "Electric", "Electric", "Automatic", 6200, 5, 4, 1, "tata.jpg",
			"Modern electric vehicle with advanced technology", "Premium Audio", "Fast Charging"),
		car("Hyundai Verna", "Hyundai", "Verna", "Sedan", "Petrol", "Manual", 2900, 5, 4, 2, "verna.webp",
			"Reliable and affordable sedan", "AC", "GPS", "Bluetooth"),
		car("Toyota Innova Crysta", "Toyota", "Innova Crysta", "SUV", "Hybrid", "Automatic", 3750, 7, 5, 3, "crys.jpg",
			"Premium family vehicle with luxury features", "Premium Audio", "Leather Seats", "Panoramic Roof"),
		car("Mahindra BE 6E", "Mahindra", "BE 6E", "Electric", "Electric", "Automatic", 3200, 5, 5, 1, "be.jpg",
			"Electric vehicle with fast charging capability", "Fast Charging", "Eco Mode", "Smart Key"),
		car("Mahindra Thar", "Mahindra", "Thar", "SUV", "Petrol", "Manual", 3200, 4, 3, 1, "thar.jpg",
			"Rugged off-road vehicle for adventures", "Off-road", "4WD", "Adventure Ready"),
		car("BMW X5", "BMW", "X5", "SUV", "Petrol", "Automatic", 7400, 7, 5, 1, "bmw.webp",
			"Luxury SUV with premium comfort", "AC", "GPS", "Leather Seats", "Sunroof"),
		car("Hyundai Creta", "Hyundai", "Creta", "SUV", "Diesel", "Manual", 5000, 5, 5, 2, "cre.avif",
			"Popular compact SUV with modern features", "AC", "GPS", "Bluetooth", "Rear Camera"),
		car("Renault Kwid", "Renault", "Kwid", "Hatchback", "Petrol", "Manual", 2500, 5, 5, 2, "kwid.jpg",
			"Affordable and fuel-efficient hatchback", "AC", "Bluetooth", "USB"),
		car("Honda City", "Honda", "City", "Sedan", "Petrol", "Automatic", 4400, 5, 4, 2, "hon.jpg",
			"Premium sedan with elegant design", "AC", "GPS", "Sunroof", "Bluetooth"),
		car("Ford EcoSport", "Ford", "EcoSport", "SUV", "Diesel", "Manual", 4000, 5, 5, 1, "ec.webp",
			"Compact SUV with good performance", "AC", "GPS", "Bluetooth", "USB"),
		car("Tata Tiago", "Tata", "Tiago", "Hatchback", "Petrol", "Manual", 2200, 5, 5, 3, "tiago.jpg",
			"Budget-friendly hatchback with good features", "AC", "Bluetooth", "USB"),
		car("Toyota Fortuner", "Toyota", "Fortuner", "SUV", "Diesel", "Automatic", 11500, 7, 5, 1, "for.png",
			"Premium large SUV for ultimate comfort", "AC", "GPS", "Leather Seats", "Sunroof"),
	}
}
