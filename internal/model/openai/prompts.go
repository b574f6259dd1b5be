package openai

// extractionPrompt is the vision prompt for reading repair intake details
// from a device photo. Same five-key JSON contract as the Gemini prompt but
// with the more prescriptive phrasing GPT vision models respond better to.
const extractionPrompt = `
Eres un experto en análisis de imágenes de equipos electrónicos. Analiza cuidadosamente esta imagen y extrae la siguiente información:

INFORMACIÓN A BUSCAR:

1. NOMBRE DEL CLIENTE:
   - Busca etiquetas adhesivas, stickers, notas pegadas, papeles
   - Texto escrito a mano o impreso con nombres de personas
   - Cualquier identificación del propietario

2. NÚMERO DE WHATSAPP/TELÉFONO:
   - Números escritos en etiquetas o papeles
   - Formatos: +57 XXX XXX XXXX, +1 XXX XXX XXXX, etc.
   - Números de 10 dígitos (ej: 3001234567)
   - Números con guiones, espacios o puntos

3. CARGADOR:
   - Cable de alimentación conectado o cerca del equipo
   - Adaptador de corriente/transformador
   - Cable USB-C, MagSafe, barrel connector

4. TIPO DE EQUIPO:
   - Laptop, computadora de escritorio, tablet, etc.

5. MARCA Y MODELO:
   - Logos visibles (Dell, HP, Lenovo, Apple, etc.)
   - Modelos específicos si son legibles

INSTRUCCIONES CRÍTICAS:
- Si NO encuentras información específica, usa exactamente "NO_ENCONTRADO"
- Para cargador: usa exactamente "SÍ" o "NO"
- Para nombres: extrae el texto completo tal como aparece
- Para teléfonos: incluye código de país si está visible

RESPONDE SOLO CON ESTE JSON (sin texto adicional):
{
  "nombreCliente": "nombre completo encontrado o NO_ENCONTRADO",
  "whatsappNumber": "número completo con código país o NO_ENCONTRADO",
  "tieneCargador": "SÍ o NO",
  "tipoEquipo": "tipo específico del equipo",
  "marcaModelo": "marca y modelo específico o NO_ENCONTRADO"
}
`
